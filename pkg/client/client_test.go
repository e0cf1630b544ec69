package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoginThenAuthorizedCalls(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			io.WriteString(w, `{"token":"tok-1","user":{"id":"`+uuid.NewString()+`","email":"jane@x.com"}}`)
		case "/api/ai/summary":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Jane Doe", body["fullName"])
			io.WriteString(w, `{"summary":"Jane is a skilled engineer."}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewSession(srv.URL + "/")
	u, err := s.Login(context.Background(), "jane@x.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", u.Email)
	assert.Equal(t, "tok-1", s.Token)

	text, err := s.Summary(context.Background(), SummaryRequest{FullName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane is a skilled engineer.", text)

	assert.Equal(t, []string{"", "Bearer tok-1"}, gotAuth)
}

func TestSession_ErrorResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/resume/") {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"not found","message":"Resume not found"}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()
	s := NewSession(srv.URL)

	err := s.DeleteResume(context.Background(), uuid.New())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Resume not found", apiErr.Message)

	_, err = s.ListResumes(context.Background())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestSession_UploadAndExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/resume/upload":
			f, hdr, err := r.FormFile("resume")
			require.NoError(t, err)
			defer f.Close()
			b, _ := io.ReadAll(f)
			assert.Equal(t, "cv.txt", hdr.Filename)
			assert.Equal(t, "Jane Doe", string(b))
			io.WriteString(w, `{"id":"`+uuid.NewString()+`","fileUrl":"https://cdn/x","extractedText":"Jane Doe","atsScore":null}`)
		case strings.HasSuffix(r.URL.Path, "/pdf"):
			w.Header().Set("Content-Type", "application/pdf")
			io.WriteString(w, "%PDF-1.3")
		}
	}))
	defer srv.Close()
	s := NewSession(srv.URL)

	up, err := s.UploadResume(context.Background(), "cv.txt", strings.NewReader("Jane Doe"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", up.ExtractedText)
	assert.False(t, up.ATSScore.Determined)

	pdf, err := s.ExportPDF(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(pdf))
}
