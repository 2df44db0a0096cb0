//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/2beens/fitpulse/internal/middleware"
)

type loginResponse struct {
	Token   string `json:"token"`
	Session struct {
		User struct {
			ID     int    `json:"id"`
			Handle string `json:"handle"`
		} `json:"user"`
	} `json:"session"`
}

func (s *IntegrationTestSuite) newRequest(method, path, token string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, serverEndpoint+path, body)
	s.Require().NoError(err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	return req
}

// do sends the request and returns the status code and the raw body.
func (s *IntegrationTestSuite) do(method, path, token string, form url.Values) (int, []byte) {
	resp, err := s.httpClient.Do(s.newRequest(method, path, token, form))
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) doJSON(method, path, token string, form url.Values, wantStatus int, target any) {
	status, body := s.do(method, path, token, form)
	s.Require().Equal(wantStatus, status, string(body))
	if target != nil {
		s.Require().NoError(json.Unmarshal(body, target))
	}
}

func (s *IntegrationTestSuite) registerAndLogin(handle, credential string) loginResponse {
	s.doJSON(http.MethodPost, "/register", "", url.Values{
		"handle":     {handle},
		"credential": {credential},
		"name":       {"Serj"},
		"age":        {"34"},
		"height":     {"174"},
		"weight":     {"80"},
		"goalWeight": {"75.5"},
	}, http.StatusCreated, nil)

	var login loginResponse
	s.doJSON(http.MethodPost, "/login", "", url.Values{
		"handle":     {handle},
		"credential": {credential},
	}, http.StatusOK, &login)
	s.Require().NotEmpty(login.Token)
	return login
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
