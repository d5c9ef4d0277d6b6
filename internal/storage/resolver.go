package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"weddingshare/internal/apperrors"
)

// SafeName flattens path separators out of a client-supplied filename so
// it cannot escape the prefix its storage key is built under.
func SafeName(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	if filename == "" {
		filename = "upload"
	}
	return filename
}

// Historical uploads landed under different prefixes as the path scheme
// drifted. Resolution walks these in fixed priority order; first hit wins.
var pathCandidates = []string{"uploads/", "", "stories/", "media/"}

// CandidateKeys returns every storage key a bare file name may live under,
// in resolution order.
func CandidateKeys(name string) []string {
	keys := make([]string, 0, len(pathCandidates))
	for _, p := range pathCandidates {
		keys = append(keys, p+name)
	}
	return keys
}

// Resolve returns a fetchable URL for a stored file name, or classifies
// the failure: ErrNotFound when the object is absent at every candidate,
// ErrUnauthorized when any candidate exists but access was denied.
func (s *Store) Resolve(ctx context.Context, name string) (string, error) {
	denied := false
	for _, key := range CandidateKeys(name) {
		err := s.head(ctx, key)
		if err == nil {
			return s.Presign(ctx, key)
		}
		if isAccessDenied(err) {
			denied = true
			continue
		}
		if !isMissing(err) {
			return "", err
		}
	}
	if denied {
		return "", fmt.Errorf("resolve %q: %w", name, apperrors.ErrUnauthorized)
	}
	return "", fmt.Errorf("resolve %q: %w", name, apperrors.ErrNotFound)
}

// DeleteAnyPath removes the blob wherever it lives, plus its thumbnail.
// Best-effort: a blob absent at every candidate is not an error, so
// metadata deletion never blocks on blob cleanup.
func (s *Store) DeleteAnyPath(ctx context.Context, name string) error {
	for _, key := range CandidateKeys(name) {
		if err := s.head(ctx, key); err != nil {
			continue
		}
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
		_ = s.Delete(ctx, key+"_thumb.jpg")
		return nil
	}
	return nil
}

func isMissing(err error) bool {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}

func isAccessDenied(err error) bool {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		return code == "Forbidden" || code == "AccessDenied"
	}
	return false
}
