/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dburkart/dsquery/pkg/proto"
)

// ErrorResponse is the body of every non-2xx response from /translate.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusForKind maps an error kind to the HTTP status it is reported with.
// Everything the caller got wrong is a 400; the rest is our problem.
func StatusForKind(kind string) int {
	switch kind {
	case "ok":
		return http.StatusOK
	case "internal":
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeQuery(w http.ResponseWriter, q *proto.Query, format string) error {
	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err := io.WriteString(w, proto.Dump(q))
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(q)
}

func writeError(w http.ResponseWriter, err error) error {
	kind := ErrorKind(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusForKind(kind))
	return json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Kind: kind})
}
