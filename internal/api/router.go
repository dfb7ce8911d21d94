package api

import "net/http"

// Router builds the full handler chain. Routes are served under /api/v1 and,
// for local use, at the root.
func (s *Server) Router() http.Handler {
	v1 := http.NewServeMux()

	v1.HandleFunc("GET /health", s.health)

	v1.Handle("GET /users/{id}", s.requireAuth(http.HandlerFunc(s.getUser)))
	v1.Handle("GET /banks", s.requireAuth(http.HandlerFunc(s.listBanks)))
	v1.Handle("POST /banks", s.requireAuth(http.HandlerFunc(s.createBank)))
	v1.Handle("GET /banks/balances", s.requireAuth(http.HandlerFunc(s.bankBalances)))
	v1.Handle("GET /transactions/total", s.requireAuth(http.HandlerFunc(s.totalAmount)))
	v1.Handle("GET /transactions/recent", s.requireAuth(http.HandlerFunc(s.recentTransactions)))
	v1.Handle("POST /transactions", s.requireAuth(http.HandlerFunc(s.createTransaction)))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", v1))
	root.Handle("/", v1)

	return s.requestID(s.accessLog(root))
}
