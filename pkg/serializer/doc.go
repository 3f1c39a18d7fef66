// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serializer reads and writes advisor documents in JSON, YAML and table form.
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, output)
//	if c, ok := w.(serializer.Closer); ok {
//	    defer c.Close()
//	}
//	if err := w.Serialize(ctx, resp); err != nil {
//	    return err
//	}
//
// The output path may be empty (stdout), a file path, or cm://namespace/name, in
// which case the document is applied to a ConfigMap under the "advisor.<ext>" key.
//
// Table output renders values implementing Tabular as columns. Other values are
// flattened into sorted FIELD/VALUE rows using their json field names.
//
// # Reading
//
// NewReader and NewFileReader decode JSON or YAML. Unmarshal decodes bytes and
// sniffs the format when it is not given. HttpReader downloads documents with
// bounded size and reports the format implied by the response Content-Type.
// ReadConfigMap fetches the first matching data key of a ConfigMap.
//
// # HTTP Responses
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//	serializer.Respond(w, r, http.StatusOK, data) // YAML when Accept asks for it
//
// Responses are encoded into a buffer first, so an encoding error never leaves a
// partial body behind.
package serializer
