package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/biosentience/bioctl/pkg/data"
	"github.com/biosentience/bioctl/pkg/engine"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps structured, caller-facing errors to 400 and everything
// else to 500.
func statusFor(err error) int {
	if engine.IsRecoverable(err) || errors.Is(err, data.ErrSampleNotFound) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func infoHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    name,
		"version": version,
		"commit":  commit,
	})
}

type analyzeRequest struct {
	Data     engine.Record `json:"data"`
	SampleID *int64        `json:"sample_id"`
}

func analyzeAPIHandler(db *sql.DB, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec := req.Data
		if rec == nil {
			if req.SampleID == nil {
				writeError(w, http.StatusBadRequest, "no data provided")
				return
			}
			s, err := data.GetSample(db, *req.SampleID)
			if err != nil {
				slog.Error("failed to get sample", "id", *req.SampleID, "error", err)
				writeError(w, statusFor(err), err.Error())
				return
			}
			rec = engine.Record(s.Features)
		}

		a, err := eng.Analyze(rec)
		if err != nil {
			slog.Debug("analysis rejected", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, a)
	}
}

func validateAPIHandler(db *sql.DB, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec := req.Data
		if rec == nil {
			if req.SampleID == nil {
				writeError(w, http.StatusBadRequest, "no data provided")
				return
			}
			s, err := data.GetSample(db, *req.SampleID)
			if err != nil {
				slog.Error("failed to get sample", "id", *req.SampleID, "error", err)
				writeError(w, statusFor(err), err.Error())
				return
			}
			rec = engine.Record(s.Features)
		}

		v, err := eng.Validate(rec)
		if err != nil {
			slog.Debug("validation rejected", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

type simulateRequest struct {
	BaseFeatures engine.Record `json:"base_features"`
	VaryFeature  string        `json:"vary_feature"`
	// pointers so an absent field gets the default while an explicit
	// zero reaches the engine
	Steps          *int     `json:"steps"`
	VariationRange *float64 `json:"variation_range"`
}

func simulateAPIHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req simulateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		steps := engine.SimulationStepsDefault
		if req.Steps != nil {
			steps = *req.Steps
		}
		variationRange := engine.VariationRangeDefault
		if req.VariationRange != nil {
			variationRange = *req.VariationRange
		}

		s, err := eng.Simulate(req.BaseFeatures, req.VaryFeature, steps, variationRange)
		if err != nil {
			slog.Debug("simulation rejected", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, s)
	}
}

type explainRequest struct {
	Target string `json:"target"`
}

func explainAPIHandler(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req explainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Target == "" {
			req.Target = engine.TargetHealthIndex
		}

		d, err := eng.Describe(req.Target)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, d)
	}
}

type sampleDataResponse struct {
	Data map[string]*float64 `json:"data"`
	Note string              `json:"note"`
}

func sampleDataAPIHandler(db *sql.DB, eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := data.GetFirstSample(db)
		if err != nil {
			slog.Error("failed to get demo sample", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		// expose only the model's schema fields
		fields := make(map[string]*float64, eng.Registry().NumFeatures())
		for _, name := range eng.Registry().Features() {
			fields[name] = s.Features[name]
		}

		writeJSON(w, http.StatusOK, sampleDataResponse{
			Data: fields,
			Note: "This is demo data from the imported dataset",
		})
	}
}
