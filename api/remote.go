/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dsquery

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/dburkart/dsquery/pkg/proto"
	"github.com/dburkart/dsquery/pkg/query"
	"github.com/dburkart/dsquery/pkg/querydoc"
	"github.com/dburkart/dsquery/pkg/server"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const maxAttempts = 3

// A RemoteClient sends query documents to a dsquery server.
type RemoteClient struct {
	target  Target
	log     zerolog.Logger
	http    *http.Client
	backoff time.Duration
}

// RemoteError is a translation error reported by the server. It unwraps to the
// matching local sentinel, so errors.Is works the same against either client.
type RemoteError struct {
	Status  int
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

var remoteKinds = map[string]error{
	"identity_mismatch":           query.ErrIdentityMismatch,
	"invalid_distinct_projection": query.ErrInvalidDistinctProjection,
	"invalid_geo_composition":     query.ErrInvalidGeoComposition,
	"invalid_geo_comparison":      query.ErrInvalidGeoComparison,
	"unsupported_geo_region":      query.ErrUnsupportedGeoRegion,
	"invalid_cursor":              query.ErrInvalidCursor,
	"unsupported_value_type":      query.ErrUnsupportedValueType,
	"invalid_operator":            query.ErrInvalidOperator,
	"invalid_direction":           query.ErrInvalidDirection,
	"nil_filter":                  query.ErrNilFilter,
	"invalid_document":            querydoc.ErrInvalidDocument,
}

func (e *RemoteError) Unwrap() error {
	return remoteKinds[e.Kind]
}

func (client *RemoteClient) Open(target Target) error {
	client.target = target
	client.http = &http.Client{Timeout: 10 * time.Second}
	if client.backoff == 0 {
		client.backoff = time.Second
	}
	return nil
}

func (client *RemoteClient) Close() error {
	client.http.CloseIdleConnections()
	return nil
}

// post sends doc, retrying with exponential backoff when the server cannot be
// reached. Responses, including error responses, are never retried.
func (client *RemoteClient) post(doc []byte) (*http.Response, error) {
	var resp *http.Response
	var err error

	requestID := uuid.NewString()
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			delay := time.Duration(math.Exp2(float64(i - 1)))
			time.Sleep(delay * client.backoff)
		}

		var req *http.Request
		req, err = http.NewRequest(http.MethodPost, client.target.Address+server.TranslatePath, bytes.NewReader(doc))
		if err != nil {
			return nil, errors.Wrap(err, "unable to build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(server.RequestIDHeader, requestID)

		resp, err = client.http.Do(req)
		if err == nil {
			return resp, nil
		}
		client.log.Debug().Err(err).Str("request", requestID).Int("attempt", i+1).Msg("translation request failed")
	}

	return nil, errors.Wrapf(err, "unable to reach %s", client.target.Address)
}

func (client *RemoteClient) Translate(doc []byte) (*proto.Query, error) {
	resp, err := client.post(doc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var e server.ErrorResponse
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, errors.Errorf("server returned %s", resp.Status)
		}
		return nil, &RemoteError{Status: resp.StatusCode, Kind: e.Kind, Message: e.Error}
	}

	q := &proto.Query{}
	if err := json.Unmarshal(body, q); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal wire query")
	}
	return q, nil
}
