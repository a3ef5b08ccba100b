package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/export"
	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/validate"
)

const maxBodyBytes = 64 << 10

// Messages shown to the person submitting the form.
const (
	msgAccepted    = "상담 문의가 성공적으로 접수되었습니다."
	msgBadRequest  = "잘못된 요청 형식입니다."
	msgServerError = "서버 오류가 발생했습니다. 다시 시도해주세요."
	msgListFailed  = "문의 목록을 불러오지 못했습니다."
	msgNoSolution  = "해당 솔루션을 찾을 수 없습니다."
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type recommendRequest struct {
	Answers []model.Answer `json:"answers"`
}

type recommendResponse struct {
	Solution model.Solution `json:"solution"`
}

type inquiryResponse struct {
	Accepted bool       `json:"accepted"`
	Tier     model.Tier `json:"tier"`
	ID       string     `json:"id"`
	Message  string     `json:"message"`
}

type inquiriesResponse struct {
	Inquiries []model.SubmissionView `json:"inquiries"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) questions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": h.opts.Catalog.Questions})
}

func (h *handler) solution(w http.ResponseWriter, r *http.Request) {
	sol, ok := h.opts.Catalog.SolutionByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNoSolution})
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Solution: sol})
}

func (h *handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Solution: h.opts.Engine.Recommend(req.Answers)})
}

func (h *handler) submitInquiry(w http.ResponseWriter, r *http.Request) {
	var p validate.Payload
	if err := decodeBody(w, r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}

	p = validate.Normalize(p)
	if err := validate.Validate(p); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			zap.L().Info("api: inquiry rejected",
				zap.String("kind", string(verr.Kind)),
				zap.Strings("fields", verr.Fields),
			)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message(), Kind: string(verr.Kind)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgServerError})
		return
	}

	res := h.opts.Submitter.Submit(r.Context(), model.Submission{
		Timestamp:           h.opts.Now(),
		Name:                p.Name,
		Phone:               p.Phone,
		ClinicName:          p.ClinicName,
		Email:               p.Email,
		RecommendedSolution: p.RecommendedSolution,
		Answers:             p.Answers,
		HasInquiry:          true,
	})

	writeJSON(w, http.StatusCreated, inquiryResponse{
		Accepted: res.Accepted,
		Tier:     res.Tier,
		ID:       res.ID,
		Message:  msgAccepted,
	})
}

func (h *handler) listInquiries(w http.ResponseWriter, r *http.Request) {
	views, err := h.opts.Lister.List(r.Context())
	if err != nil {
		zap.L().Error("api: list inquiries", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgListFailed})
		return
	}
	if views == nil {
		views = []model.SubmissionView{}
	}
	writeJSON(w, http.StatusOK, inquiriesResponse{Inquiries: views})
}

func (h *handler) exportInquiries(w http.ResponseWriter, r *http.Request) {
	views, err := h.opts.Lister.List(r.Context())
	if err != nil {
		zap.L().Error("api: export inquiries", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgListFailed})
		return
	}

	name := export.FileName(h.opts.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="inquiries.xlsx"; filename*=UTF-8''%s`, url.PathEscape(name)))
	if err := export.WriteXLSX(w, views, h.opts.Catalog); err != nil {
		zap.L().Error("api: write xlsx", zap.Error(err))
	}
}

func (h *handler) metrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.opts.Metrics.Snapshot())
}
