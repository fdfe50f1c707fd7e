/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type Target struct {
	Local   bool
	Address string
}

// ParseTarget takes a target string and decides where translations happen.
// It only returns an error for unparsable URLs and unknown schemes.
//
// Formats:
//
//	local
//	file:
//	http://<host:port>
//	https://<host:port>
func ParseTarget(target string) (Target, error) {
	ret := Target{
		Local:   true,
		Address: "local",
	}

	target = strings.TrimSpace(target)
	if target == "" || target == "local" {
		return ret, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return Target{}, errors.Wrap(err, "invalid target")
	}

	switch u.Scheme {
	case "", "file":
		return ret, nil
	case "http", "https":
		if u.Host == "" {
			return Target{}, errors.Errorf("target %s has no host", target)
		}
		ret.Local = false
		ret.Address = u.Scheme + "://" + u.Host
		return ret, nil
	}

	return Target{}, errors.Errorf("unrecognized scheme: %s", u.Scheme)
}
