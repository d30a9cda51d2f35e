package server

import (
	"encoding/json"
	"net/http"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// JSONResp write content as JSON encoded response.
func JSONResp(w http.ResponseWriter, logger log.Logger, code int, content interface{}) {
	b, err := json.MarshalIndent(content, "", "\t")
	if err != nil {
		logger.Error("cannot JSON serialize response", "err", err)
		code = http.StatusInternalServerError
		b = []byte(`{"error":"Internal Server Error","code":1}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code"`
}

// JSONErr write the error as JSON encoded response. The HTTP status is
// derived from the error kind. Panics are reported without details.
func JSONErr(w http.ResponseWriter, logger log.Logger, err error) {
	err = errors.Redact(err)
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	}
	JSONResp(w, logger, code, ErrorResponse{
		Error: err.Error(),
		Code:  errors.Code(err),
	})
}

// StatusCode maps an error to the HTTP status that describes it best.
func StatusCode(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrUnauthorized.Is(err):
		return http.StatusForbidden
	case multisig.ErrAlreadyExecuted.Is(err),
		multisig.ErrAlreadyConfirmed.Is(err),
		multisig.ErrInsufficientConfirmations.Is(err),
		multisig.ErrAlreadyInitialized.Is(err),
		multisig.ErrNotInitialized.Is(err):
		return http.StatusConflict
	case errors.ErrInput.Is(err),
		errors.ErrEmpty.Is(err),
		errors.ErrType.Is(err),
		errors.ErrOverflow.Is(err),
		multisig.ErrEmptyOwnerSet.Is(err),
		multisig.ErrInvalidThreshold.Is(err),
		multisig.ErrZeroAddress.Is(err),
		multisig.ErrDuplicateOwner.Is(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
