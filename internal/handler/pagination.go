package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-blog-api/internal/model"
)

func parseIntOrDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func pageFromQuery(r *http.Request) model.Page {
	query := r.URL.Query()
	return model.NewPage(
		parseIntOrDefault(query.Get("page"), 1),
		parseIntOrDefault(query.Get("limit"), 10),
	)
}
