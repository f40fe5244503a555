package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseID extracts and validates the numeric "id" path parameter. Returns
// the parsed id and true on success, or 0 and false after writing an error
// response.
func ParseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int64, bool) {
	return parseInt64Path(w, r, "id", "invalid_id", "Invalid ID format", logger)
}

// ParsePathID extracts and validates an arbitrary numeric path parameter.
func ParsePathID(w http.ResponseWriter, r *http.Request, pathParam string, logger *zap.Logger) (int64, bool) {
	return parseInt64Path(w, r, pathParam, "invalid_"+pathParam, "Invalid "+pathParam+" format", logger)
}

// ParseSkip reads the skip query parameter, defaulting to 0. Malformed or
// negative values fall back to the default rather than erroring.
func ParseSkip(r *http.Request) int {
	return parseQueryInt(r, "skip", 0)
}

// ParseLimit reads the limit query parameter with the given default.
func ParseLimit(r *http.Request, def int) int {
	return parseQueryInt(r, "limit", def)
}

func parseQueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseInt64Path(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (int64, bool) {
	idStr := r.PathValue(pathParam)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}
