package server

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"squido/internal/app"
)

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, pageSize := pageParams(r)
		if raw := strings.TrimSpace(r.URL.Query().Get("categoryIds")); raw != "" {
			ids := make([]int, 0, 4)
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid categoryIds")
					return
				}
				ids = append(ids, id)
			}
			result, err := s.app.BooksByCategoryIDs(ids, page, pageSize)
			if err != nil {
				writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, result)
			return
		}
		result, err := s.app.ListBooks(r.URL.Query().Get("keyword"), page, pageSize)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodPost:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.BookInput
		if !decodeJSON(w, r, &input) {
			return
		}
		book, err := s.app.CreateBook(input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, book)
	default:
		methodNotAllowed(w)
	}
}

// /api/books/{id}, /api/books/{id}/ratings, /api/books/{id}/cover
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/books/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "ratings":
			s.handleBookRatings(w, r, id)
		case "cover":
			s.handleBookCover(w, r, id)
		default:
			notFound(w)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		detail, err := s.app.GetBookDetail(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	case http.MethodPut:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.BookInput
		if !decodeJSON(w, r, &input) {
			return
		}
		book, err := s.app.UpdateBook(id, input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodDelete:
		if !s.requireStaff(w, r) {
			return
		}
		if err := s.app.DeleteBook(id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleBookRatings(w http.ResponseWriter, r *http.Request, bookID string) {
	switch r.Method {
	case http.MethodGet:
		ratings, err := s.app.ListRatings(bookID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": ratings,
			"count": len(ratings),
		})
	case http.MethodPost:
		var input app.RatingInput
		if !decodeJSON(w, r, &input) {
			return
		}
		rating, err := s.app.CreateRating(bookID, input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rating)
	default:
		methodNotAllowed(w)
	}
}

// Covers live in object storage under their book id; the catalog row holds
// the key and GET hands out a short-lived presigned URL.
func (s *Server) handleBookCover(w http.ResponseWriter, r *http.Request, bookID string) {
	covers := s.app.Covers()
	if covers == nil {
		writeError(w, http.StatusNotImplemented, "cover storage not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
		detail, err := s.app.GetBookDetail(bookID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		if detail.ImageURL == "" {
			notFound(w)
			return
		}
		url, err := covers.PresignGet(r.Context(), detail.ImageURL, 15*time.Minute)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate cover URL")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	case http.MethodPost:
		if !s.requireStaff(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form data")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required (field: file)")
			return
		}
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			writeError(w, http.StatusBadRequest, "unsupported file type")
			return
		}
		key := "covers/" + bookID + strings.ToLower(path.Ext(header.Filename))
		if err := covers.Put(r.Context(), key, file, header.Size, contentType); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store cover")
			return
		}
		book, err := s.app.SetBookImage(bookID, key)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, pageSize := pageParams(r)
		result, err := s.app.ListCategories(r.URL.Query().Get("keyword"), page, pageSize)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodPost:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.CategoryInput
		if !decodeJSON(w, r, &input) {
			return
		}
		category, err := s.app.CreateCategory(input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, category)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	id, err := strconv.Atoi(raw)
	if err != nil {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		category, err := s.app.GetCategory(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case http.MethodPut:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.CategoryInput
		if !decodeJSON(w, r, &input) {
			return
		}
		category, err := s.app.UpdateCategory(id, input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case http.MethodDelete:
		if !s.requireStaff(w, r) {
			return
		}
		if err := s.app.DeleteCategory(id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAuthors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, pageSize := pageParams(r)
		result, err := s.app.ListAuthors(r.URL.Query().Get("keyword"), page, pageSize)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodPost:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.AuthorInput
		if !decodeJSON(w, r, &input) {
			return
		}
		author, err := s.app.CreateAuthor(input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, author)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAuthorByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/authors/")
	if id == "" || strings.Contains(id, "/") {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		author, err := s.app.GetAuthor(id)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, author)
	case http.MethodPut:
		if !s.requireStaff(w, r) {
			return
		}
		var input app.AuthorInput
		if !decodeJSON(w, r, &input) {
			return
		}
		author, err := s.app.UpdateAuthor(id, input)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, author)
	case http.MethodDelete:
		if !s.requireStaff(w, r) {
			return
		}
		if err := s.app.DeleteAuthor(id); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}
