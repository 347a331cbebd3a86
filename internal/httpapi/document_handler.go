package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/ports"
	"trialsage/internal/usecase/document"
)

const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	svc *document.Service
}

func NewDocumentHandler(svc *document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func actorFrom(r *http.Request) string {
	if actor := strings.TrimSpace(r.Header.Get("X-User-Id")); actor != "" {
		return actor
	}
	return "anonymous"
}

type folderRequest struct {
	Name     string  `json:"name" validate:"required"`
	ParentID *uint64 `json:"parentId"`
}

type folderResponse struct {
	FolderID  uint64  `json:"folderId"`
	ParentID  *uint64 `json:"parentId,omitempty"`
	Name      string  `json:"name"`
	CreatedAt string  `json:"createdAt"`
}

func folderJSON(folder ports.Folder) folderResponse {
	return folderResponse{
		FolderID:  folder.FolderID,
		ParentID:  folder.ParentID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
	}
}

type documentResponse struct {
	DocumentID  string  `json:"documentId"`
	FolderID    *uint64 `json:"folderId,omitempty"`
	Name        string  `json:"name"`
	ContentType string  `json:"contentType,omitempty"`
	SizeBytes   int64   `json:"sizeBytes"`
	LockedBy    *string `json:"lockedBy,omitempty"`
	LockedAt    *string `json:"lockedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func documentJSON(doc ports.Document) documentResponse {
	return documentResponse{
		DocumentID:  doc.DocumentID,
		FolderID:    doc.FolderID,
		Name:        doc.Name,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		LockedBy:    doc.LockedBy,
		LockedAt:    doc.LockedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (h *DocumentHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.svc.CreateFolder(r.Context(), document.FolderInput{
		TenantID: TenantFromContext(r.Context()),
		ParentID: req.ParentID,
		Name:     req.Name,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folderJSON(folder))
}

func (h *DocumentHandler) listChildren(w http.ResponseWriter, r *http.Request, folderID *uint64) {
	children, err := h.svc.ListChildren(r.Context(), TenantFromContext(r.Context()), folderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	folders := make([]folderResponse, 0, len(children.Folders))
	for _, folder := range children.Folders {
		folders = append(folders, folderJSON(folder))
	}
	documents := make([]documentResponse, 0, len(children.Documents))
	for _, doc := range children.Documents {
		documents = append(documents, documentJSON(doc))
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders, "documents": documents})
}

func (h *DocumentHandler) ListRootChildren(w http.ResponseWriter, r *http.Request) {
	h.listChildren(w, r, nil)
}

func (h *DocumentHandler) ListFolderChildren(w http.ResponseWriter, r *http.Request) {
	folderID, err := uint64Param(r, "folderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid folder id")
		return
	}
	h.listChildren(w, r, &folderID)
}

func (h *DocumentHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, err := uint64Param(r, "folderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid folder id")
		return
	}

	if err := h.svc.DeleteFolder(r.Context(), TenantFromContext(r.Context()), folderID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readUploadFile(r *http.Request) (name string, contentType string, data []byte, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", "", nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, header.Header.Get("Content-Type"), data, nil
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	name, contentType, data, err := readUploadFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var folderID *uint64
	if raw := strings.TrimSpace(r.FormValue("folderId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid folder id")
			return
		}
		folderID = &id
	}
	if custom := strings.TrimSpace(r.FormValue("name")); custom != "" {
		name = custom
	}

	doc, err := h.svc.Upload(r.Context(), document.UploadInput{
		TenantID:    TenantFromContext(r.Context()),
		FolderID:    folderID,
		Name:        name,
		ContentType: contentType,
		Data:        data,
		UploadedBy:  actorFrom(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentJSON(doc))
}

func (h *DocumentHandler) UploadVersion(w http.ResponseWriter, r *http.Request) {
	_, _, data, err := readUploadFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	version, err := h.svc.UploadVersion(r.Context(),
		TenantFromContext(r.Context()),
		chi.URLParam(r, "documentId"),
		data,
		actorFrom(r),
	)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, versionJSON(version))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetDocument(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentJSON(doc))
}

func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.svc.Download(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type moveRequest struct {
	FolderID *uint64 `json:"folderId"`
}

func (h *DocumentHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.svc.Move(r.Context(),
		TenantFromContext(r.Context()),
		chi.URLParam(r, "documentId"),
		req.FolderID,
		actorFrom(r),
	)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) Lock(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Lock(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"), actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Unlock(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"), actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"), actorFrom(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type versionResponse struct {
	VersionNumber int    `json:"versionNumber"`
	SizeBytes     int64  `json:"sizeBytes"`
	CreatedBy     string `json:"createdBy,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func versionJSON(version ports.DocumentVersion) versionResponse {
	return versionResponse{
		VersionNumber: version.VersionNumber,
		SizeBytes:     version.SizeBytes,
		CreatedBy:     version.CreatedBy,
		CreatedAt:     version.CreatedAt,
	}
}

func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.svc.ListVersions(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "documentId"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]versionResponse, 0, len(versions))
	for _, version := range versions {
		out = append(out, versionJSON(version))
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": out})
}

type moduleMappingRequest struct {
	Module           string  `json:"module" validate:"required"`
	ModuleDocumentID string  `json:"moduleDocumentId" validate:"required"`
	DocumentID       string  `json:"documentId" validate:"required"`
	WorkflowID       *uint64 `json:"workflowId"`
}

type moduleMappingResponse struct {
	MappingID        uint64  `json:"mappingId"`
	Module           string  `json:"module"`
	ModuleDocumentID string  `json:"moduleDocumentId"`
	DocumentID       string  `json:"documentId"`
	WorkflowID       *uint64 `json:"workflowId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

func mappingJSON(mapping ports.ModuleDocument) moduleMappingResponse {
	return moduleMappingResponse{
		MappingID:        mapping.MappingID,
		Module:           mapping.Module,
		ModuleDocumentID: mapping.ModuleDocumentID,
		DocumentID:       mapping.DocumentID,
		WorkflowID:       mapping.WorkflowID,
		CreatedAt:        mapping.CreatedAt,
	}
}

func (h *DocumentHandler) RegisterModuleDocument(w http.ResponseWriter, r *http.Request) {
	var req moduleMappingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mapping, err := h.svc.RegisterModuleDocument(r.Context(), document.ModuleMappingInput{
		TenantID:         TenantFromContext(r.Context()),
		Module:           req.Module,
		ModuleDocumentID: req.ModuleDocumentID,
		DocumentID:       req.DocumentID,
		WorkflowID:       req.WorkflowID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappingJSON(mapping))
}

func (h *DocumentHandler) GetModuleDocument(w http.ResponseWriter, r *http.Request) {
	mapping, err := h.svc.GetModuleDocument(r.Context(),
		TenantFromContext(r.Context()),
		chi.URLParam(r, "module"),
		chi.URLParam(r, "moduleDocumentId"),
	)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappingJSON(mapping))
}
