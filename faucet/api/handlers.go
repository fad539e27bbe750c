package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pushchain/svm-faucet/faucet/airdrop"
	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
	"github.com/pushchain/svm-faucet/faucet/requests"
	"github.com/pushchain/svm-faucet/faucet/version"
)

const maxBodyBytes = 64 << 10

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

// handlePing handles GET /request_ping and echoes the body
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	_, log, release := s.enter("handling ping")
	defer release()

	body, err := readBody(r)
	if err != nil {
		log.Error().Err(err).Msg("BadRequest (body)")
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info().Str("ping", body).Msg("ping")
	writeText(w, http.StatusOK, body)
}

// handleVersion handles GET /request_version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	_, log, release := s.enter("handling version request")
	defer release()

	v := version.Display()
	log.Info().Str("version", v).Msg("version")
	writeText(w, http.StatusOK, v)
}

// handleAirdrop handles POST /request_neon, amount in whole tokens
func (s *Server) handleAirdrop(w http.ResponseWriter, r *http.Request) {
	s.airdrop(w, r, false)
}

// handleAirdropInFractions handles POST /request_neon_in_galans, amount in fractions
func (s *Server) handleAirdropInFractions(w http.ResponseWriter, r *http.Request) {
	s.airdrop(w, r, true)
}

func (s *Server) airdrop(w http.ResponseWriter, r *http.Request, inFractions bool) {
	reqID, log, release := s.enter("handling airdrop request")
	defer release()

	body, err := readBody(r)
	if err != nil {
		log.Error().Err(err).Msg("BadRequest (body)")
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	var req airdrop.Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		log.Error().Err(err).Str("body", body).Msg("BadRequest (json)")
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if inFractions {
		req.InFractions = true
	}

	if err := s.airdropper.Airdrop(r.Context(), reqID, req); err != nil {
		event := log.Error().Err(err)
		var faucetErr *ferrors.FaucetError
		if ferrors.As(err, &faucetErr) {
			event = event.
				Str("code", string(faucetErr.Code)).
				Str("stage", string(faucetErr.Stage)).
				Bool("fatal", faucetErr.IsFatal())
		}
		event.Msg("InternalServerError")
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeText(w, http.StatusOK, "")
}

// enter registers the request in the in-flight counter and returns its id,
// a logger tagged with it and the release func to defer.
func (s *Server) enter(msg string) (string, zerolog.Logger, func()) {
	reqID := requests.NewID()
	guard := requests.Active.Enter()

	log := s.logger.With().Str("req_id", reqID).Logger()
	log.Info().Msg(msg)
	log.Info().Msgf("Active requests: %s", guard)

	return reqID, log, guard.Release
}

// readBody returns the request body, rejecting bodies that are not UTF-8
func readBody(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return "", fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("body is not valid UTF-8")
	}
	return string(data), nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
