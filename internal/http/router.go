package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router uses the stdlib http.ServeMux (no third-party routing dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes login/logout.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/api/v1/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
	r.Handle("/auth/api/v1/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
}

// RegisterPolicyTemplateRoutes template catalog CRUD.
func (r *Router) RegisterPolicyTemplateRoutes(h *PolicyTemplateHandler) {
	r.Handle("/admin/api/v1/policy-templates", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/admin/api/v1/policy-templates/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/admin/api/v1/policy-templates/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.Update(w, req, id)
		case http.MethodDelete:
			h.Delete(w, req, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterPropertyPolicyRoutes binding management + public resolved view.
func (r *Router) RegisterPropertyPolicyRoutes(h *PropertyPolicyHandler) {
	r.Handle("/admin/api/v1/property-policies", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Bind(w, req)
	})
	r.Handle("/admin/api/v1/property-policies/for-property", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ListForProperty(w, req)
	})
	r.Handle("/admin/api/v1/property-policies/", func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/admin/api/v1/property-policies/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch req.Method {
		case http.MethodPut:
			h.Rebind(w, req, id)
		case http.MethodDelete:
			h.Unbind(w, req, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterPolicyUpdateRoutes change-log audit list + xlsx export.
func (r *Router) RegisterPolicyUpdateRoutes(h *PolicyUpdateHandler) {
	r.Handle("/admin/api/v1/policy-updates", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.List(w, req)
	})
	r.Handle("/admin/api/v1/policy-updates/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Export(w, req)
	})
}

// RegisterRentalRoutes properties, reservations and agreements.
func (r *Router) RegisterRentalRoutes(h *RentalHandler) {
	r.Handle("/rental/api/v1/properties", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListMyProperties(w, req)
		case http.MethodPost:
			h.CreateProperty(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// properties/{id}/policies (public resolved view)
	r.Handle("/rental/api/v1/properties/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/rental/api/v1/properties/")
		parts := strings.Split(rest, "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] == "policies" {
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.PropertyPolicies(w, req, parts[0])
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	r.Handle("/rental/api/v1/reservations", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListReservations(w, req)
		case http.MethodPost:
			h.CreateReservation(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/rental/api/v1/agreements/for-reservation", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.AgreementForReservation(w, req)
	})

	// agreements/{id}/accept
	r.Handle("/rental/api/v1/agreements/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/rental/api/v1/agreements/")
		parts := strings.Split(rest, "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] == "accept" {
			if req.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h.AcceptAgreement(w, req, parts[0])
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
}
