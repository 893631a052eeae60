package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcCreateInvite mints a signed invite token for the caller's match.
	RpcCreateInvite = "create_invite"

	// RpcRedeemInvite validates an invite token and returns the match id.
	RpcRedeemInvite = "redeem_invite"

	// MatchNameArcade is the authoritative match handler name registered with Nakama.
	MatchNameArcade = "arcade_match"

	// StorageCollectionMatchState holds the replicated match documents.
	StorageCollectionMatchState = "match_state"

	// StorageCollectionRooms holds lobby seat assignments keyed by room id.
	StorageCollectionRooms = "rooms"
)

// Match label keys, queried by the quick match RPC.
const (
	MatchLabelKeyOpenSeats = "open"
	MatchLabelKeyGame      = "game"
	MatchLabelKeyPhase     = "phase"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpRollDice  int64 = 2
	OpMoveToken int64 = 3
	OpPlaceMark int64 = 4

	// Server -> Client events
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpDiceRolled    int64 = 104
	OpRollDiscarded int64 = 105
	OpTokenMoved    int64 = 106
	OpTokenCaptured int64 = 107
	OpPawnMoved     int64 = 108
	OpMarkPlaced    int64 = 109
	OpTurnChanged   int64 = 110
	OpGameEnded     int64 = 111
	OpStateSnapshot int64 = 112
	OpGameError     int64 = 113
)
