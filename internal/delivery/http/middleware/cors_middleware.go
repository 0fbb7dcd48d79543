package middleware

import "net/http"

type CORSMiddleware struct {
	origins map[string]struct{}
	any     bool
}

// NewCORSMiddleware allows the listed origins; "*" or an empty list allows any.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		if origin == "*" {
			m.any = true
		}
		m.origins[origin] = struct{}{}
	}
	if len(origins) == 0 {
		m.any = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if origin != "" && m.allows(origin) {
			// Credentialed requests need the exact origin echoed back
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (m *CORSMiddleware) allows(origin string) bool {
	if m.any {
		return true
	}
	_, ok := m.origins[origin]
	return ok
}
