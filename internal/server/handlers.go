package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/askdb/internal/ddl"
	"github.com/tordrt/askdb/internal/formatter"
	"github.com/tordrt/askdb/internal/responses"
	"github.com/tordrt/askdb/internal/samples"
	"github.com/tordrt/askdb/internal/session"
)

type parseRequest struct {
	Schema string `json:"schema"`
	Mode   string `json:"mode"`
}

type loadSchemaRequest struct {
	Schema string `json:"schema"`
	Sample string `json:"sample"`
	Mode   string `json:"mode"`
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// resolveMode returns the request's mode, or the server default when empty
func (s *Server) resolveMode(mode string) (ddl.Mode, error) {
	if mode == "" {
		return s.mode, nil
	}
	return ddl.ParseMode(mode)
}

// failParse maps parse errors to responses
func (s *Server) failParse(c *gin.Context, err error) {
	var strictErr *ddl.StrictError
	switch {
	case errors.As(err, &strictErr):
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Schema rejected", gin.H{
			"diagnostics": strictErr.Diagnostics,
		})
	case errors.Is(err, ddl.ErrUnparseable):
		responses.Fail(c, http.StatusUnprocessableEntity, err, "Schema could not be parsed")
	default:
		s.logger.Error().Err(err).Msg("failed to parse schema")
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to parse schema")
	}
}

// parseSchema handles POST /api/v1/schema/parse
func (s *Server) parseSchema(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid parse mode")
		return
	}

	result, err := s.parser.Parse(req.Schema, mode)
	if err != nil {
		s.failParse(c, err)
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"schema":      result.Schema,
		"view":        formatter.BuildView(result.Schema),
		"diagnostics": result.Diagnostics,
	}, "Schema parsed successfully")
}

// listSamples handles GET /api/v1/samples
func (s *Server) listSamples(c *gin.Context) {
	responses.Success(c, http.StatusOK, gin.H{
		"samples": samples.Names(),
	}, "")
}

// getSample handles GET /api/v1/samples/:name
func (s *Server) getSample(c *gin.Context) {
	sample, err := samples.Get(c.Param("name"))
	if err != nil {
		if errors.Is(err, samples.ErrUnknownSample) {
			responses.Fail(c, http.StatusNotFound, err, "Sample not found")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to read sample")
		return
	}
	responses.Success(c, http.StatusOK, sample, "")
}

// createSession handles POST /api/v1/sessions
func (s *Server) createSession(c *gin.Context) {
	sess := s.sessions.Create()
	responses.Success(c, http.StatusCreated, sess.Snapshot(), "Session created")
}

// lookupSession writes a 404 and returns nil when the session does not exist
func (s *Server) lookupSession(c *gin.Context) *session.Session {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusNotFound, err, "Session not found")
		return nil
	}
	return sess
}

// getSession handles GET /api/v1/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	sess := s.lookupSession(c)
	if sess == nil {
		return
	}
	responses.Success(c, http.StatusOK, sess.Snapshot(), "")
}

// deleteSession handles DELETE /api/v1/sessions/:id
func (s *Server) deleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		responses.Fail(c, http.StatusNotFound, err, "Session not found")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Session deleted")
}

// loadSessionSchema handles PUT /api/v1/sessions/:id/schema
func (s *Server) loadSessionSchema(c *gin.Context) {
	sess := s.lookupSession(c)
	if sess == nil {
		return
	}

	var req loadSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	if (req.Schema == "") == (req.Sample == "") {
		responses.Fail(c, http.StatusBadRequest, nil, "Exactly one of schema or sample is required")
		return
	}

	mode, err := s.resolveMode(req.Mode)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid parse mode")
		return
	}

	text := req.Schema
	if req.Sample != "" {
		sample, err := samples.Get(req.Sample)
		if err != nil {
			responses.Fail(c, http.StatusNotFound, err, "Sample not found")
			return
		}
		text = sample.DDL
	}

	if _, err := sess.LoadSchema(c.Request.Context(), req.Sample, text, mode); err != nil {
		s.failParse(c, err)
		return
	}

	snap := sess.Snapshot()
	responses.Success(c, http.StatusOK, gin.H{
		"session": snap,
		"view":    formatter.BuildView(snap.Schema),
	}, "Schema loaded successfully")
}

// ask handles POST /api/v1/sessions/:id/ask
func (s *Server) ask(c *gin.Context) {
	sess := s.lookupSession(c)
	if sess == nil {
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	tr, err := sess.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSchema), errors.Is(err, session.ErrEmptyQuestion):
			responses.Fail(c, http.StatusBadRequest, err, "Cannot answer question")
		default:
			s.logger.Error().Err(err).Str("session", sess.ID()).Msg("failed to answer question")
			responses.Fail(c, http.StatusInternalServerError, err, "Failed to answer question")
		}
		return
	}

	responses.Success(c, http.StatusOK, tr, "")
}

// clearMessages handles DELETE /api/v1/sessions/:id/messages
func (s *Server) clearMessages(c *gin.Context) {
	sess := s.lookupSession(c)
	if sess == nil {
		return
	}
	sess.Clear()
	responses.Success(c, http.StatusOK, nil, "Chat cleared")
}
