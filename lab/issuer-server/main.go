// Demo issuer endpoint for manual wallet testing. It mimics a university
// records office: cookie-session login, a graduation check, and credential
// issuance carrying the deterministic proof the wallet verifies.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"didwallet/internal/credential"
	"didwallet/internal/platform/config"
)

const sessionCookie = "issuer_token"

type studentRecord struct {
	StudentID      string `json:"studentId"`
	Name           string `json:"name"`
	Birth          string `json:"birth"`
	College        string `json:"college"`
	Department     string `json:"department"`
	Program        string `json:"program"`
	Status         string `json:"status"`
	GraduationYear int    `json:"graduationYear"`
}

// Mock registry. Login is studentId / YYYYMMDD(birth).
var students = []studentRecord{
	{StudentID: "20180001", Name: "Kim Jiwoo", Birth: "19990312", College: "Engineering", Department: "Computer Science", Program: "BSc", Status: "graduated", GraduationYear: 2022},
	{StudentID: "20190042", Name: "Lee Minseo", Birth: "20000725", College: "Natural Sciences", Department: "Mathematics", Program: "BSc", Status: "graduated", GraduationYear: 2023},
	{StudentID: "20210117", Name: "Park Dohyun", Birth: "20020104", College: "Engineering", Department: "Computer Science", Program: "BSc", Status: "enrolled", GraduationYear: 0},
}

type server struct {
	secret []byte
	engine *credential.Engine
	issuer string
	logger *slog.Logger
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	addr := os.Getenv("ISSUER_ADDR")
	if addr == "" {
		addr = ":8091"
	}
	authSecret := os.Getenv("ISSUER_AUTH_SECRET")
	if authSecret == "" {
		authSecret = "dev-secret"
	}

	s := &server{
		secret: []byte(authSecret),
		issuer: config.DefaultTrustedIssuer,
		engine: &credential.Engine{
			TrustedIssuer: config.DefaultTrustedIssuer,
			Secret:        config.DefaultIssuerSecret,
			PublicKey: credential.PublicKey{
				Ax: config.DefaultIssuerPublicAx,
				Ay: config.DefaultIssuerPublicAy,
			},
		},
		logger: logger,
	}

	r := chi.NewRouter()
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/students/me", s.requireAuth(s.handleStudentMe))
	r.Post("/api/issue/verify", s.requireAuth(s.handleVerify))
	r.Post("/api/issue/vc", s.requireAuth(s.handleIssueVC))

	logger.Info("issuer server listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing credentials"})
		return
	}

	record := findStudent(req.Username)
	if record == nil || record.Birth != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   record.StudentID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "token signing failed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((30 * time.Minute).Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// requireAuth resolves the session cookie to a student id.
func (s *server) requireAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next(w, r, claims.Subject)
	}
}

func (s *server) handleStudentMe(w http.ResponseWriter, _ *http.Request, studentID string) {
	record := findStudent(studentID)
	if record == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Student not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"student": record})
}

func (s *server) handleVerify(w http.ResponseWriter, _ *http.Request, studentID string) {
	record := findStudent(studentID)
	if record == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Student not found"})
		return
	}
	if record.Status != "graduated" {
		writeJSON(w, http.StatusConflict, map[string]any{"ok": false, "error": "Not graduated"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "record": record})
}

type issueRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (s *server) handleIssueVC(w http.ResponseWriter, r *http.Request, studentID string) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "walletAddress required"})
		return
	}

	record := findStudent(studentID)
	if record == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Student not found"})
		return
	}
	if record.Status != "graduated" {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Not graduated"})
		return
	}

	now := time.Now()
	vc := credential.Credential{
		"@context":     []any{"https://www.w3.org/2018/credentials/v1"},
		"id":           "urn:uuid:" + uuid.NewString(),
		"type":         []any{"VerifiableCredential", "GraduationCredential"},
		"issuer":       s.issuer,
		"issuanceDate": now.UTC().Format(time.RFC3339),
		"credentialSubject": map[string]any{
			"id":             "did:wallet:" + req.WalletAddress,
			"walletAddress":  req.WalletAddress,
			"studentId":      record.StudentID,
			"name":           record.Name,
			"college":        record.College,
			"department":     record.Department,
			"program":        record.Program,
			"graduationYear": record.GraduationYear,
		},
	}
	s.engine.AttachProof(vc, s.issuer+"#key-1", now)

	s.logger.Info("credential issued", "student", record.StudentID, "wallet", req.WalletAddress)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "vc": vc})
}

func findStudent(id string) *studentRecord {
	for i := range students {
		if students[i].StudentID == id {
			return &students[i]
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
