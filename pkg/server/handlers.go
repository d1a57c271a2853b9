package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/cosmicscale/pkg/catalog"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/hud"
)

type healthResponse struct {
	Status   string `json:"status"`
	Entities int    `json:"entities"`
}

type entityResponse struct {
	Name        string  `json:"name"`
	Exponent    float64 `json:"exponent"`
	Description string  `json:"description"`
	Kind        string  `json:"kind,omitempty"`
	Color       string  `json:"color,omitempty"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Entities: s.registry.Len()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entities := s.registry.All()
	out := make([]entityResponse, 0, len(entities))
	for _, e := range entities {
		er := entityResponse{
			Name:        e.Name,
			Exponent:    e.Exponent,
			Description: e.Description,
		}
		if b, ok := e.Handle.(*catalog.Body); ok {
			er.Kind = string(b.Object.Kind)
			er.Color = b.Object.Color
		}
		out = append(out, er)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("exponent")
	if raw == "" {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "missing exponent parameter"))
		return
	}
	current, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "exponent %q is not a number", raw))
		return
	}

	res, err := s.resolver.EvaluateRegistry(current, s.registry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hud.NewReport(res))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
