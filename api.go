// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package isolatedspa

import (
	"encoding/json"
	"net/http"
)

// HelloRoute is the path of the (only) JSON API endpoint.
const HelloRoute = "/api/v1/hello"

// helloMessage is what the Hello endpoint answers, as a JSON string.
const helloMessage = "hello!"

var helloBody = mustMarshal(helloMessage)

// Hello answers with the JSON string "hello!", ignoring any query parameters
// and request headers.
func Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(helloBody)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
