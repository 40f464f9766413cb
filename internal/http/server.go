// Package http serves the web UI: server-rendered pages over the live
// ledger snapshot, with a polled notification partial.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tahbil/internal/ai"
	"tahbil/internal/auth"
	"tahbil/internal/bangla"
	"tahbil/internal/cache"
	"tahbil/internal/core"
	"tahbil/internal/imghost"
	"tahbil/internal/live"
	"tahbil/internal/notify"
	"tahbil/internal/store"
	appweb "tahbil/web"
)

// Publisher mirrors the AMQP client; nil disables publishing.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, collection, entityID string) error
}

// Options carries every dependency of the server. Insights, Photos and
// Publisher may be nil; the pages degrade instead of failing.
type Options struct {
	Addr        string
	Store       store.Store
	Cache       *live.Cache
	Auth        *auth.Authenticator
	JWT         *auth.JWTManager
	Notify      *notify.Center
	Insights    ai.InsightGenerator
	QuoteCache  cache.Cache[string]
	Photos      *imghost.Client
	Publisher   Publisher
	StartMonth  core.Month
	FundName    string
	FundAddress string
}

type Server struct {
	http.Server

	store      store.Store
	cache      *live.Cache
	auth       *auth.Authenticator
	jwt        *auth.JWTManager
	notify     *notify.Center
	insights   ai.InsightGenerator
	quoteCache cache.Cache[string]
	photos     *imghost.Client
	publisher  Publisher

	startMonth  core.Month
	fundName    string
	fundAddress string

	templates   map[string]*template.Template
	rateLimiter *rateLimiter

	// seen ids per collection, for change notifications
	seenMu sync.Mutex
	seen   map[store.Collection]map[string]bool

	unsubChanges func()
	shutdownOnce sync.Once

	now func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run
// server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		store:       opts.Store,
		cache:       opts.Cache,
		auth:        opts.Auth,
		jwt:         opts.JWT,
		notify:      opts.Notify,
		insights:    opts.Insights,
		quoteCache:  opts.QuoteCache,
		photos:      opts.Photos,
		publisher:   opts.Publisher,
		startMonth:  opts.StartMonth,
		fundName:    opts.FundName,
		fundAddress: opts.FundAddress,
		rateLimiter: newRateLimiter(),
		seen:        make(map[store.Collection]map[string]bool),
		now:         time.Now,
	}

	templates, err := parseTemplates()
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = templates

	s.primeSeen()
	s.unsubChanges = s.cache.OnChange(s.onCollectionChange)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("GET /login", s.withSecurityHeaders(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("POST /logout", s.withSecurityHeaders(s.handleLogout))

	page := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withSecurityHeaders(s.requireAuth(h))
	}

	mux.HandleFunc("GET /{$}", page(s.handleDashboard))

	mux.HandleFunc("GET /members", page(s.handleMembers))
	mux.HandleFunc("POST /members", page(s.handleCreateMember))
	mux.HandleFunc("GET /members/{id}", page(s.handleMemberDetail))
	mux.HandleFunc("POST /members/{id}", page(s.handleUpdateMember))
	mux.HandleFunc("POST /members/{id}/delete", page(s.handleDeleteMember))
	mux.HandleFunc("POST /members/{id}/photo", page(s.handleMemberPhoto))

	mux.HandleFunc("GET /collections", page(s.handleCollections))
	mux.HandleFunc("POST /collections", page(s.handleRecordCollection))
	mux.HandleFunc("GET /receipts/{id}", page(s.handleReceipt))
	mux.HandleFunc("GET /defaulters", page(s.handleDefaulters))

	mux.HandleFunc("GET /expenses", page(s.handleExpenses))
	mux.HandleFunc("POST /expenses", page(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses/{id}/edit", page(s.handleEditExpensePage))
	mux.HandleFunc("POST /expenses/{id}/edit", page(s.handleUpdateExpense))
	mux.HandleFunc("POST /expenses/{id}/delete", page(s.handleDeleteExpense))

	mux.HandleFunc("GET /trash", page(s.handleTrash))
	mux.HandleFunc("GET /reports", page(s.handleReports))
	mux.HandleFunc("GET /reports/print", page(s.handlePrintReport))

	mux.HandleFunc("GET /ui/notifications", page(s.handleNotifications))

	return s
}

// Shutdown stops the change subscription and rate limiter cleanup before
// draining HTTP connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.unsubChanges != nil {
			s.unsubChanges()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// publishChange notifies the worker without blocking the request.
func (s *Server) publishChange(collection, entityID string) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishLedgerChanged(ctx, collection, entityID); err != nil {
			slog.Error("Publish ledger change failed", "collection", collection, "entity_id", entityID, "error", err)
		}
	}()
}

// primeSeen records the ids already present so that startup data does
// not raise notifications.
func (s *Server) primeSeen() {
	l := s.cache.Ledger()
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	s.seen[store.CollectionMembers] = idSet(len(l.Members))
	for _, m := range l.Members {
		s.seen[store.CollectionMembers][m.ID] = true
	}
	s.seen[store.CollectionSubscriptions] = idSet(len(l.Subscriptions))
	for _, sub := range l.Subscriptions {
		s.seen[store.CollectionSubscriptions][sub.ID] = true
	}
	s.seen[store.CollectionExpenses] = idSet(len(l.Expenses))
	for _, e := range l.Expenses {
		s.seen[store.CollectionExpenses][e.ID] = true
	}
}

func idSet(n int) map[string]bool { return make(map[string]bool, n) }

// onCollectionChange inspects the fresh snapshot and queues a
// notification for each entity not seen before.
func (s *Server) onCollectionChange(col store.Collection) {
	l := s.cache.Ledger()

	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	known := s.seen[col]
	if known == nil {
		known = idSet(0)
		s.seen[col] = known
	}

	switch col {
	case store.CollectionMembers:
		for _, m := range l.Members {
			if known[m.ID] {
				continue
			}
			known[m.ID] = true
			s.notify.PushAction(notify.LevelInfo, "নতুন সদস্য", m.Name, "/members/"+m.ID)
		}
	case store.CollectionSubscriptions:
		for _, sub := range l.Subscriptions {
			if known[sub.ID] {
				continue
			}
			known[sub.ID] = true
			name := bangla.Digits(sub.MemberID)
			if m, ok := l.MemberByID(sub.MemberID); ok {
				name = m.Name
			}
			s.notify.PushAction(notify.LevelSuccess, "চাঁদা আদায়",
				name+" ("+bangla.Month(sub.Month)+") "+formatTaka(sub.Amount),
				"/receipts/"+sub.ID)
		}
	case store.CollectionExpenses:
		for _, e := range l.Expenses {
			if known[e.ID] {
				continue
			}
			known[e.ID] = true
			total := e.Total()
			if total.Amount >= notify.LargeExpenseThreshold {
				s.notify.Push(notify.LevelAlert, "বড় খরচ", e.Description+" ("+formatTaka(total)+")")
			} else {
				s.notify.Push(notify.LevelWarning, "নতুন খরচ", e.Description)
			}
		}
	}
}
