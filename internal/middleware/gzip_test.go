package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type gzipHabitPayload struct {
	Name         string `json:"name"`
	ReminderTime string `json:"reminder_time,omitempty"`
}

type gzipHabitReply struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

func gzipHabitHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req gzipHabitPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(gzipHabitReply{Message: "created", Name: req.Name})
}

func TestGzipMiddleware(t *testing.T) {
	type want struct {
		statusCode      int
		contentEncoding string
		name            string
	}

	tests := []struct {
		name            string
		payload         gzipHabitPayload
		acceptEncoding  string
		compressRequest bool
		want            want
	}{
		{
			name:           "client accepts gzip",
			payload:        gzipHabitPayload{Name: "morning run", ReminderTime: "07:30"},
			acceptEncoding: "gzip",
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "gzip",
				name:            "morning run",
			},
		},
		{
			name:           "client does not accept gzip",
			payload:        gzipHabitPayload{Name: "reading"},
			acceptEncoding: "",
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "",
				name:            "reading",
			},
		},
		{
			name:            "compressed request body",
			payload:         gzipHabitPayload{Name: "meditation", ReminderTime: "21:00"},
			acceptEncoding:  "gzip",
			compressRequest: true,
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "gzip",
				name:            "meditation",
			},
		},
		{
			name:            "compressed request, plain response",
			payload:         gzipHabitPayload{Name: "journaling"},
			acceptEncoding:  "",
			compressRequest: true,
			want: want{
				statusCode:      http.StatusOK,
				contentEncoding: "",
				name:            "journaling",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("marshal payload: %v", err)
			}

			var requestBody io.Reader = bytes.NewReader(raw)
			if tt.compressRequest {
				var buf bytes.Buffer
				gz := gzip.NewWriter(&buf)
				if _, err := gz.Write(raw); err != nil {
					t.Fatalf("write gzip: %v", err)
				}
				if err := gz.Close(); err != nil {
					t.Fatalf("close gzip: %v", err)
				}
				requestBody = &buf
			}

			req := httptest.NewRequest(http.MethodPost, "/api/habits", requestBody)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			if tt.compressRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}

			w := httptest.NewRecorder()

			h := GzipMiddleware(http.HandlerFunc(gzipHabitHandler))
			h.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.want.statusCode {
				t.Fatalf("status: got %d want %d", res.StatusCode, tt.want.statusCode)
			}

			if ce := res.Header.Get("Content-Encoding"); ce != tt.want.contentEncoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.want.contentEncoding)
			}

			var body io.Reader = res.Body
			if res.Header.Get("Content-Encoding") == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				if err != nil {
					t.Fatalf("new gzip reader: %v", err)
				}
				defer gr.Close()
				body = gr
			}

			var reply gzipHabitReply
			if err := json.NewDecoder(body).Decode(&reply); err != nil {
				t.Fatalf("decode reply: %v", err)
			}
			if reply.Message != "created" || reply.Name != tt.want.name {
				t.Fatalf("reply = %+v, want created/%q", reply, tt.want.name)
			}
		})
	}
}

func TestGzipMiddleware_MalformedCompressedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/habits", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")

	w := httptest.NewRecorder()

	h := GzipMiddleware(http.HandlerFunc(gzipHabitHandler))
	h.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", res.StatusCode, http.StatusBadRequest)
	}
}
