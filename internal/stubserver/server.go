// Package stubserver implements a self-contained storefront backend with
// the same wire contract as the production API: login/register/me plus the
// product catalog. It backs the `shopkit serve` development command and the
// integration tests, so the client stack can be exercised end to end
// without a real deployment.
package stubserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopkit-dev/shopkit/pkg/api"
)

// Seed credentials, handy in dev and fixed for the integration tests.
const (
	SeedAdminEmail     = "admin@example.com"
	SeedAdminPassword  = "admin123"
	SeedMemberEmail    = "member@example.com"
	SeedMemberPassword = "member123"
)

type user struct {
	id           int64
	name         string
	email        string
	passwordHash []byte
	role         api.Role
}

// Server is an in-memory storefront backend. It implements http.Handler.
type Server struct {
	secret []byte
	logger *slog.Logger
	router chi.Router

	mu         sync.Mutex
	users      map[string]*user
	nextUserID int64
	products   []api.Product
	nextID     int64
	categories map[int64]string
}

// Option configures Server behavior.
type Option func(*serverConfig)

type serverConfig struct {
	secret []byte
	logger *slog.Logger
}

// WithSecret sets the token signing secret.
// Default: a fixed development secret.
func WithSecret(secret []byte) Option {
	return func(c *serverConfig) {
		c.secret = secret
	}
}

// WithLogger sets the structured logger.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// New creates a stub backend seeded with an admin, a member, and a small
// catalog.
func New(opts ...Option) *Server {
	cfg := &serverConfig{
		secret: []byte("shopkit-dev-secret"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		secret: cfg.secret,
		logger: cfg.logger,
		users:  make(map[string]*user),
		categories: map[int64]string{
			1: "beans",
			2: "drinks",
		},
	}
	s.seed()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/register", s.handleRegister)
	r.Get("/api/me", s.handleMe)
	r.Get("/api/products", s.handleListProducts)
	r.Post("/api/products", s.handleCreateProduct)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) seed() {
	s.addUser("Admin", SeedAdminEmail, SeedAdminPassword, api.RoleAdmin)
	s.addUser("Member", SeedMemberEmail, SeedMemberPassword, api.RoleMember)

	now := time.Now().UTC().Format(time.RFC3339)
	s.products = []api.Product{
		{ID: 1, Name: "House Blend Beans", Price: 1200, IsAvailable: true, CategoryID: 1, SKU: "BEAN-001", StockQuantity: 40, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Espresso", Price: 300, IsAvailable: true, CategoryID: 2, SKU: "DRINK-001", StockQuantity: 999, CreatedAt: now, UpdatedAt: now},
	}
	s.nextID = 3
}

func (s *Server) addUser(name, email, password string, role api.Role) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.nextUserID++
	s.users[email] = &user{
		id:           s.nextUserID,
		name:         name,
		email:        email,
		passwordHash: hash,
		role:         role,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.generateToken(u.id)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    userJSON(u),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "name, email, and a password of at least 8 characters are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	s.addUser(req.Name, req.Email, req.Password, api.RoleMember)

	writeJSON(w, http.StatusCreated, userJSON(s.users[req.Email]))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": userJSON(u)})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := append([]api.Product(nil), s.products...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	u, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if u.role != api.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin privileges required")
		return
	}

	var req api.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" || req.SKU == "" || req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "name, sku, and a positive price are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[req.CategoryID]; !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	for _, p := range s.products {
		if p.SKU == req.SKU {
			writeError(w, http.StatusConflict, "SKU already exists")
			return
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	product := api.Product{
		ID:            s.nextID,
		Name:          req.Name,
		Price:         req.Price,
		IsAvailable:   req.IsAvailable,
		CategoryID:    req.CategoryID,
		SKU:           req.SKU,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.nextID++
	s.products = append(s.products, product)

	writeJSON(w, http.StatusCreated, product)
}

// authenticate resolves the bearer token on r to a user.
func (s *Server) authenticate(r *http.Request) (*user, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	userID, err := s.parseToken(parts[1])
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.id == userID {
			return u, true
		}
	}
	return nil, false
}

func userJSON(u *user) map[string]any {
	return map[string]any{
		"id":    u.id,
		"name":  u.name,
		"email": u.email,
		"role":  u.role,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
