/*
 * Copyright 2025 Winnow Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec
	"os"

	"go.opencensus.io/zpages"

	"github.com/winnow-io/winnow/winnow/cmd"
)

func main() {
	// WINNOW_DEBUG_LISTEN=127.0.0.1:8080 serves pprof profiles, request
	// traces and zpages while a long run is in flight. Off by default so
	// that plain pipeline use opens no sockets.
	if addr := os.Getenv("WINNOW_DEBUG_LISTEN"); addr != "" {
		zpages.Handle(nil, "/z")
		go func() {
			fmt.Fprintf(os.Stderr, "Listening for /debug HTTP requests at %s\n", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "Debug listener failed: %v\n", err)
			}
		}()
	}
	cmd.Execute()
}
