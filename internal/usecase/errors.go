package usecase

import (
	"errors"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/domain/session"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limited")

	ErrInvalidSelection   = session.ErrInvalidSelection
	ErrDocumentLoading    = matchodds.ErrDocumentLoading
	ErrDocumentLoadFailed = matchodds.ErrDocumentLoadFailed
)
