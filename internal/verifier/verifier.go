// Package verifier checks that a written dataset file holds exactly the table it was written from.
package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dbsmedya/situations/internal/logger"
	"github.com/dbsmedya/situations/internal/table"
)

// VerificationMethod defines how a written file is compared to its table.
type VerificationMethod string

const (
	// MethodCount compares row counts only (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 compares a digest of every row in order
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// ParseMethod maps a config value to a VerificationMethod. Empty means sha256.
func ParseMethod(s string) (VerificationMethod, error) {
	switch VerificationMethod(s) {
	case "":
		return MethodSHA256, nil
	case MethodCount, MethodSHA256, MethodSkip:
		return VerificationMethod(s), nil
	default:
		return "", fmt.Errorf("unsupported verification method: %s", s)
	}
}

// VerifyResult holds the outcome of verifying one file.
type VerifyResult struct {
	Path         string
	Method       VerificationMethod
	WantRows     int
	GotRows      int
	WantHash     string
	GotHash      string
	Match        bool
	ErrorMessage string
}

// Verifier re-reads written files and compares them with the tables they came from.
type Verifier struct {
	method VerificationMethod
	logger *logger.Logger
}

// NewVerifier creates a verifier using method. An empty method means sha256.
func NewVerifier(method VerificationMethod, log *logger.Logger) *Verifier {
	if method == "" {
		method = MethodSHA256
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Verifier{method: method, logger: log}
}

// Method returns the verification method in use.
func (v *Verifier) Method() VerificationMethod {
	return v.method
}

// VerifyFile reads the CSV at path with want's schema and compares it with want.
// A mismatch is returned both in the result and as an error.
func (v *Verifier) VerifyFile(path string, want *table.Table) (*VerifyResult, error) {
	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		return &VerifyResult{Path: path, Method: MethodSkip, Match: true}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for verification: %w", path, err)
	}
	defer f.Close()

	got, err := table.ReadCSV(f, want.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read back %s: %w", path, err)
	}

	var result *VerifyResult
	switch v.method {
	case MethodCount:
		result = verifyByCount(want, got)
	case MethodSHA256:
		result = verifyBySHA256(want, got)
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", v.method)
	}
	result.Path = path

	if !result.Match {
		v.logger.Errorw("Verification FAILED", "path", path, "reason", result.ErrorMessage)
		return result, fmt.Errorf("verification mismatch in %s: %s", path, result.ErrorMessage)
	}

	v.logger.Debugw("Verification PASSED", "path", path, "method", v.method, "rows", result.GotRows)
	return result, nil
}

func verifyByCount(want, got *table.Table) *VerifyResult {
	result := &VerifyResult{
		Method:   MethodCount,
		WantRows: want.Len(),
		GotRows:  got.Len(),
		Match:    want.Len() == got.Len(),
	}
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("count mismatch: table=%d, file=%d", result.WantRows, result.GotRows)
	}
	return result
}

func verifyBySHA256(want, got *table.Table) *VerifyResult {
	result := &VerifyResult{
		Method:   MethodSHA256,
		WantRows: want.Len(),
		GotRows:  got.Len(),
		WantHash: HashTable(want),
		GotHash:  HashTable(got),
	}
	result.Match = result.WantRows == result.GotRows && result.WantHash == result.GotHash

	if !result.Match {
		if result.WantRows != result.GotRows {
			result.ErrorMessage = fmt.Sprintf("count mismatch: table=%d, file=%d", result.WantRows, result.GotRows)
		} else {
			result.ErrorMessage = fmt.Sprintf("hash mismatch: table=%s, file=%s", result.WantHash[:16], result.GotHash[:16])
		}
	}
	return result
}

// HashTable returns a SHA256 digest of t's rows in order. Row order is part
// of the digest; column order is not.
func HashTable(t *table.Table) string {
	hasher := sha256.New()
	for _, r := range t.Rows {
		hasher.Write([]byte(t.Schema.Fingerprint(r)))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
