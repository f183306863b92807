package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/auth"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/index"

	"github.com/samber/lo"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.auth.Register(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token.String()})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.auth.Login(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token.String()})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := domain.OrderStatus(strings.ToUpper(raw))
		if !st.Valid() {
			s.writeError(w, r, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, raw))
			return
		}
		status = lo.ToPtr(st)
	}
	orders, err := s.orders.List(status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Ternary(orders == nil, []domain.Order{}, orders))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type signatureRequest struct {
	Image string `json:"image"`
}

func (s *Server) attachSignature(w http.ResponseWriter, r *http.Request) {
	var req signatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	image, err := decodeImage(req.Image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.orders.AttachSignature(r.Context(), r.PathValue("id"), image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// decodeImage accepts plain base64 or a data URL.
func decodeImage(raw string) ([]byte, error) {
	if _, data, ok := strings.Cut(raw, ";base64,"); ok && strings.HasPrefix(raw, "data:") {
		raw = data
	}
	image, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(image) == 0 {
		return nil, fmt.Errorf("%w: image must be base64 encoded", errors.ErrInvalidSignature)
	}
	return image, nil
}

type historyResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
	Cursor   *string              `json:"cursor"`
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = lo.ToPtr(c)
	}
	messages, next, err := s.chat.History(cursor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Messages: lo.Ternary(messages == nil, []domain.ChatMessage{}, messages),
		Cursor:   next,
	})
}

type postChatRequest struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req postChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	message, err := s.chat.Post(r.Context(), domain.PostChatCommand{
		AuthorID: userID,
		Author:   lo.CoalesceOrEmpty(req.Author, userID),
		Content:  req.Content,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (s *Server) searchChat(w http.ResponseWriter, r *http.Request) {
	hits, err := s.chat.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Ternary(hits == nil, []index.Hit{}, hits))
}

func (s *Server) reportLocation(w http.ResponseWriter, r *http.Request) {
	var update domain.LocationUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}
	if update.DriverID == "" {
		update.DriverID, _ = auth.UserIDFromContext(r.Context())
	}
	if err := s.telemetry.Report(r.Context(), update); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
