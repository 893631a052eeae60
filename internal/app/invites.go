package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"arcade/internal/domain"
)

// InviteService mints signed room invite tokens so a share link cannot be
// forged to point at an arbitrary match.
type InviteService struct {
	inviteSecret string
	inviteIssuer string
	inviteTTL    time.Duration
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InviteService{
		inviteSecret: secret,
		inviteIssuer: issuer,
		inviteTTL:    ttl,
	}
}

// GenerateToken mints an invite for the given match on behalf of a
// participant.
func (s *InviteService) GenerateToken(participantID, matchID string, kind domain.GameKind) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if participantID == "" {
		return "", fmt.Errorf("participant id is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported game kind: %s", kind)
	}
	if s.inviteSecret == "" || s.inviteIssuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":  s.inviteIssuer,
		"sub":  participantID,
		"exp":  time.Now().Add(s.inviteTTL).Unix(),
		"mid":  matchID,
		"game": string(kind),
		"jti":  fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.inviteSecret))
}

// Invite is the validated content of an invite token.
type Invite struct {
	ParticipantID string
	MatchID       string
	Kind          domain.GameKind
}

// ParseToken verifies the signature and expiry of an invite token and
// returns its content.
func (s *InviteService) ParseToken(raw string) (Invite, error) {
	if s == nil {
		return Invite{}, fmt.Errorf("invite service is nil")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.inviteSecret), nil
	})
	if err != nil {
		return Invite{}, fmt.Errorf("parse invite token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Invite{}, fmt.Errorf("invalid invite token")
	}
	if iss, _ := claims["iss"].(string); iss != s.inviteIssuer {
		return Invite{}, fmt.Errorf("invite token issuer mismatch")
	}

	inv := Invite{}
	inv.ParticipantID, _ = claims["sub"].(string)
	inv.MatchID, _ = claims["mid"].(string)
	if game, _ := claims["game"].(string); game != "" {
		inv.Kind = domain.GameKind(game)
	}
	if inv.MatchID == "" || !inv.Kind.Valid() {
		return Invite{}, fmt.Errorf("invite token is incomplete")
	}
	return inv, nil
}
