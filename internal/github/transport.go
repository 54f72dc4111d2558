// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/sirseer-ghas/internal/logger"
	"github.com/sirseerhq/sirseer-ghas/pkg/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// maxResponseSize caps a single response body. A billing page holds at most
// MaxPageSize repositories.
const maxResponseSize = 50 << 20

// newHTTPClient builds the HTTP client shared by the REST and GraphQL
// clients: bearer token via oauth2, then User-Agent, logging and a
// response size limit.
func newHTTPClient(token string) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &apiTransport{base: transport},
		},
	}
}

// apiTransport sets the User-Agent, logs each call at debug level and
// limits the response body size.
type apiTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.Redacted(),
		}).WithError(err).Debug("github request failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     req.URL.Redacted(),
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("github request")

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
