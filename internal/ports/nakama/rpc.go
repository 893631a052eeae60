package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"arcade/internal/app"
	"arcade/internal/config"
	"arcade/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest selects which arcade game to queue for.
type QuickMatchRequest struct {
	Game   string `json:"game"`
	RoomID string `json:"room_id,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcCreateInvite, rpcCreateInvite); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcRedeemInvite, rpcRedeemInvite)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	request := QuickMatchRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &request); err != nil {
			return "", fmt.Errorf("invalid quick match payload: %w", err)
		}
	}
	kind := domain.GameKind(request.Game)
	if !kind.Valid() {
		kind = domain.GameLudo
	}

	// Find any open lobby running our game.
	query := fmt.Sprintf("+label.%s:>=1 +label.%s:%s +label.%s:lobby",
		MatchLabelKeyOpenSeats, MatchLabelKeyGame, kind, MatchLabelKeyPhase)

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := maxSeatsFor(kind) - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	params := map[string]interface{}{"game": string(kind)}
	if request.RoomID != "" {
		params["room_id"] = request.RoomID
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameArcade, params)
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// inviteService builds the signing service from the loaded game config.
func inviteService() *app.InviteService {
	cfg := config.GetGameConfig()
	if cfg == nil {
		return nil
	}
	return app.NewInviteService(cfg.InviteSecret, cfg.InviteIssuer, time.Duration(cfg.InviteTTLMinutes)*time.Minute)
}

// CreateInviteRequest asks for a signed invite link token.
type CreateInviteRequest struct {
	MatchID string `json:"match_id"`
	Game    string `json:"game"`
}

// CreateInviteResponse carries the signed token.
type CreateInviteResponse struct {
	Token string `json:"token"`
}

func rpcCreateInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	request := CreateInviteRequest{}
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return "", fmt.Errorf("invalid invite payload: %w", err)
	}

	svc := inviteService()
	if svc == nil {
		return "", fmt.Errorf("invite signing is not configured")
	}

	token, err := svc.GenerateToken(userId, request.MatchID, domain.GameKind(request.Game))
	if err != nil {
		logger.Warn("rpcCreateInvite [User:%s]: %v", userId, err)
		return "", err
	}

	b, _ := json.Marshal(CreateInviteResponse{Token: token})
	return string(b), nil
}

// RedeemInviteRequest carries a received invite token.
type RedeemInviteRequest struct {
	Token string `json:"token"`
}

// RedeemInviteResponse points the client at the invited match.
type RedeemInviteResponse struct {
	MatchID   string `json:"match_id"`
	Game      string `json:"game"`
	InvitedBy string `json:"invited_by"`
}

func rpcRedeemInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	request := RedeemInviteRequest{}
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return "", fmt.Errorf("invalid invite payload: %w", err)
	}

	svc := inviteService()
	if svc == nil {
		return "", fmt.Errorf("invite signing is not configured")
	}

	invite, err := svc.ParseToken(request.Token)
	if err != nil {
		return "", err
	}

	resp := RedeemInviteResponse{
		MatchID:   invite.MatchID,
		Game:      string(invite.Kind),
		InvitedBy: invite.ParticipantID,
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
