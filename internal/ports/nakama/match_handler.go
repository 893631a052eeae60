package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"

	"arcade/internal/app"
	"arcade/internal/bot"
	"arcade/internal/config"
	"arcade/internal/domain"
	"arcade/internal/domain/match"
	"arcade/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// tickRate is the match loop frequency in ticks per second.
const tickRate = 5

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Kind   domain.GameKind `json:"kind"`    // Which arcade game this match runs
	RoomID string          `json:"room_id"` // Lobby room id, "" when seats come from joins
	Seats  []string        `json:"seats"`   // User IDs in seat order, empty string means seat is empty
	Tick   int64           `json:"tick"`

	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`
	Doc       *match.State                `json:"-"` // Replicated match document, nil while in lobby
	DocVer    string                      `json:"-"` // Store version backing conditional writes
	Bots      map[string]*bot.Agent       `json:"-"`
	Store     ports.StatePort             `json:"-"`
	Rooms     ports.RoomPort              `json:"-"`
	Accounts  ports.AccountPort           `json:"-"`

	BotMinDelayTicks int64 `json:"bot_min_delay_ticks"`
	BotMaxDelayTicks int64 `json:"bot_max_delay_ticks"`
	BotWaitUntil     int64 `json:"bot_wait_until"`     // Tick when the acting bot moves
	AdvanceAtTick    int64 `json:"advance_at_tick"`    // Tick when a resolved roll rotates the turn, 0 when none pending
	AdvanceDelay     int64 `json:"advance_delay_ticks"`
	AutoFillDelay    int64 `json:"auto_fill_delay_ticks"`
	SoloSinceTick    int64 `json:"solo_since_tick"` // Tick when the lobby became a single human, 0 when not waiting
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !domain.IsAIParticipant(seat) {
			count++
		}
	}
	return count
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !domain.IsAIParticipant(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// maxSeatsFor returns the seat capacity per game.
func maxSeatsFor(kind domain.GameKind) int {
	if kind == domain.GameTicTacToe {
		return 2
	}
	return 4
}

func millisToTicks(millis int) int64 {
	t := int64(millis) * tickRate / 1000
	if t < 1 {
		t = 1
	}
	return t
}

// matchLabel is the queryable label published to the Nakama match listing.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	kind := domain.GameLudo
	if v, ok := params["game"].(string); ok && domain.GameKind(v).Valid() {
		kind = domain.GameKind(v)
	}
	roomID, _ := params["room_id"].(string)

	minDelay, maxDelay := config.GetBotDelayMillis()
	state := &MatchState{
		Kind:             kind,
		RoomID:           roomID,
		Seats:            make([]string, maxSeatsFor(kind)),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Bots:             make(map[string]*bot.Agent),
		Store:            NewNakamaStateAdapter(nk),
		Rooms:            NewNakamaRoomAdapter(nk),
		Accounts:         NewNakamaAccountAdapter(nk),
		BotMinDelayTicks: millisToTicks(minDelay),
		BotMaxDelayTicks: millisToTicks(maxDelay),
		AdvanceDelay:     millisToTicks(config.GetSnakesAdvanceDelayMillis()),
		AutoFillDelay:    millisToTicks(config.GetBotAutoFillDelayMillis()),
	}

	label := &matchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  string(kind),
		Phase: "lobby",
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A participant already in the running game may always rejoin.
	if matchState.Doc != nil {
		if _, playing := seatOf(matchState.Seats, presence.GetUserId()); playing {
			return state, true, ""
		}
		return state, false, "Game already started"
	}

	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		for _, seat := range matchState.Seats {
			if domain.IsAIParticipant(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func seatOf(seats []string, userId string) (int, bool) {
	for i, s := range seats {
		if s == userId {
			return i, true
		}
	}
	return -1, false
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if _, already := seatOf(matchState.Seats, p.GetUserId()); already {
			continue
		}

		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Doc == nil {
			for i, seatUserId := range matchState.Seats {
				if domain.IsAIParticipant(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}

		seat, _ := seatOf(matchState.Seats, p.GetUserId())
		mh.broadcastRoster(matchState, dispatcher, logger, OpPlayerJoined, p.GetUserId(), seat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat, seated := seatOf(matchState.Seats, p.GetUserId())

		// A running game keeps the seat so the participant can rejoin.
		if matchState.Doc == nil && seated {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		}
		if seated {
			mh.broadcastRoster(matchState, dispatcher, logger, OpPlayerLeft, p.GetUserId(), seat)
		}
	}

	// Re-elect the AI authority when the current one has gone.
	if matchState.Doc != nil {
		authority := matchState.Doc.AuthorityParticipantID
		if _, connected := matchState.Presences[authority]; !connected {
			if seat := findFirstConnectedHuman(matchState); seat >= 0 {
				matchState.Doc.AuthorityParticipantID = matchState.Seats[seat]
				matchState.Doc.Version++
				mh.persistAndBroadcast(ctx, matchState, dispatcher, logger, nil)
				logger.Debug("MatchLeave: Authority moved to seat %d.", seat)
			}
		}
	}

	if len(matchState.Presences) == 0 && shouldTerminateNoHumans(matchState.Seats) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// findFirstConnectedHuman returns the lowest seat whose human occupant is
// still connected, or -1.
func findFirstConnectedHuman(state *MatchState) int {
	for i, userId := range state.Seats {
		if userId == "" || domain.IsAIParticipant(userId) {
			continue
		}
		if _, ok := state.Presences[userId]; ok {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpRollDice:
			mh.handleRollDice(ctx, matchState, dispatcher, logger, msg)
		case OpMoveToken:
			mh.handleMoveToken(ctx, matchState, dispatcher, logger, msg)
		case OpPlaceMark:
			mh.handlePlaceMark(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processAutoFill(ctx, matchState, dispatcher, logger)
	mh.processPendingAdvance(ctx, matchState, dispatcher, logger)
	mh.processBots(ctx, matchState, dispatcher, logger)

	return matchState
}

// processAutoFill seats bots in a lobby where a single human has been
// waiting for the configured delay, so a solo player always gets a game.
// The countdown resets whenever a second human arrives or the human leaves.
func (mh *matchHandler) processAutoFill(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Doc != nil || state.GetHumanPlayerCount() != 1 || state.GetOpenSeatsCount() == 0 {
		state.SoloSinceTick = 0
		return
	}
	if state.SoloSinceTick == 0 {
		state.SoloSinceTick = state.Tick
		return
	}
	if state.Tick-state.SoloSinceTick < state.AutoFillDelay {
		return
	}
	state.SoloSinceTick = 0

	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		id := nextFreeBotID(state.Seats)
		agent, err := bot.NewAgent(id, nil)
		if err != nil {
			logger.Error("processAutoFill: Failed to create agent for %s: %v", id, err)
			return
		}
		state.Seats[i] = id
		state.Bots[id] = agent
	}

	logger.Info("processAutoFill: Filled open seats with bots for a solo player.")
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshot(ctx, state, dispatcher, logger)
}

// nextFreeBotID picks the lowest AI participant id not already seated.
func nextFreeBotID(seats []string) string {
	for i := 0; ; i++ {
		id := domain.AIParticipantID(i)
		if _, taken := seatOf(seats, id); !taken {
			return id
		}
	}
}

// processPendingAdvance rotates the turn once a resolved snakes roll has
// been on screen long enough.
func (mh *matchHandler) processPendingAdvance(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Doc == nil || state.AdvanceAtTick == 0 || state.Tick < state.AdvanceAtTick {
		return
	}
	state.AdvanceAtTick = 0

	events, err := state.App.AdvanceSnakesTurn(state.Doc)
	if err != nil {
		logger.Warn("processPendingAdvance: %v", err)
		return
	}
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Doc == nil || state.Doc.Winner() != "" || state.AdvanceAtTick != 0 {
		state.BotWaitUntil = 0
		return
	}

	currentUserID := state.Doc.CurrentTurnParticipant()
	if !domain.IsAIParticipant(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Int63n(state.BotMaxDelayTicks-state.BotMinDelayTicks+1) + state.BotMinDelayTicks
		state.BotWaitUntil = state.Tick + delay
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(currentUserID, nil)
		if err != nil {
			logger.Error("processBots: Failed to create agent for %s: %v", currentUserID, err)
			return
		}
		state.Bots[currentUserID] = agent
	}

	var events []app.Event
	var err error
	switch state.Kind {
	case domain.GameLudo:
		events, err = state.App.PlayLudoBotTurn(state.Doc, agent)
	case domain.GameSnakes:
		events, err = state.App.RollSnakesDice(state.Doc, agent.ID)
		if err == nil && state.Doc.Winner() == "" {
			state.AdvanceAtTick = state.Tick + state.AdvanceDelay
		}
	case domain.GameTicTacToe:
		events, err = state.App.PlayTicTacToeBotTurn(state.Doc, agent)
	}
	if err != nil {
		logger.Error("processBots: Bot %s failed to act: %v", currentUserID, err)
		return
	}
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)
}

// startGameRequest is the owner's start message. Seats and colors come from
// the lobby room when one exists, otherwise from the join order.
type startGameRequest struct {
	AiCount int               `json:"aiCount"`
	Colors  map[string]string `json:"colors,omitempty"` // participant id -> chosen color
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Doc != nil {
		if state.Doc.Winner() == "" {
			logger.Warn("StartGame: Game already running.")
			return
		}
		resetForRestart(state)
	}

	ownerSeat := findFirstHumanSeat(state.Seats)
	if ownerSeat < 0 || state.Seats[ownerSeat] != senderID {
		logger.Warn("StartGame: User %s tried to start game but is not owner.", senderID)
		return
	}

	request := &startGameRequest{}
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), request); err != nil {
			logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
			return
		}
	}

	seats, aiCount, err := mh.resolveSeats(ctx, state, request)
	if err != nil {
		logger.Error("StartGame: Failed to resolve seats: %v", err)
		return
	}
	if len(seats)+aiCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", len(seats)+aiCount, app.MinPlayersToStartGame)
		return
	}

	doc, events, err := state.App.SetupMatch(state.Kind, seats, aiCount)
	if err != nil {
		logger.Error("StartGame: Failed to set up match: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	// Seat the AI participants the setup created.
	for id := range playersOf(doc) {
		if !domain.IsAIParticipant(id) {
			continue
		}
		if _, seated := seatOf(state.Seats, id); seated {
			continue
		}
		for i, s := range state.Seats {
			if s == "" {
				state.Seats[i] = id
				break
			}
		}
		if _, ok := state.Bots[id]; !ok {
			if agent, aerr := bot.NewAgent(id, nil); aerr == nil {
				state.Bots[id] = agent
			}
		}
	}

	state.Doc = doc
	state.DocVer = ""
	mh.updateLabel(state, dispatcher, logger)
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: %s game started with %d players.", state.Kind, state.GetOccupiedSeatCount())
}

// resetForRestart clears a finished game so the lobby can start a fresh
// one. Bot seats from the ended game free up so the owner can pick a new
// fill count; human seats stay.
func resetForRestart(state *MatchState) {
	for i, s := range state.Seats {
		if domain.IsAIParticipant(s) {
			state.Seats[i] = ""
			delete(state.Bots, s)
		}
	}
	state.Doc = nil
	state.AdvanceAtTick = 0
	state.BotWaitUntil = 0
}

// playersOf lists the participant ids in the game payload.
func playersOf(doc *match.State) map[string]struct{} {
	ids := make(map[string]struct{})
	switch doc.Kind {
	case domain.GameLudo:
		for id := range doc.Ludo.Players {
			ids[id] = struct{}{}
		}
	case domain.GameSnakes:
		for id := range doc.Snakes.Players {
			ids[id] = struct{}{}
		}
	case domain.GameTicTacToe:
		for id := range doc.TicTacToe.Players {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// resolveSeats builds the seat assignments either from the lobby room or
// from the current join order.
func (mh *matchHandler) resolveSeats(ctx context.Context, state *MatchState, request *startGameRequest) ([]ports.SeatAssignment, int, error) {
	if state.RoomID != "" {
		seats, err := state.Rooms.FetchSeatAssignments(ctx, state.RoomID)
		if err != nil {
			return nil, 0, err
		}
		aiCount, err := state.Rooms.FetchAIPlayerCount(ctx, state.RoomID)
		if err != nil {
			return nil, 0, err
		}
		return seats, aiCount, nil
	}

	var seats []ports.SeatAssignment
	seatedBots := 0
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}
		if domain.IsAIParticipant(userId) {
			seatedBots++
			continue
		}
		seat := ports.SeatAssignment{ParticipantID: userId, Seat: i}
		if request.Colors != nil {
			seat.ChosenColor = domain.Color(request.Colors[userId])
		}
		seats = append(seats, seat)
	}

	// Bots already seated (auto-fill, bot lobbies) count even when the
	// start request asks for fewer.
	aiCount := request.AiCount
	if seatedBots > aiCount {
		aiCount = seatedBots
	}
	return seats, aiCount, nil
}

type moveTokenRequest struct {
	TokenIndex int `json:"tokenIndex"`
}

type placeMarkRequest struct {
	Cell int `json:"cell"`
}

func (mh *matchHandler) handleRollDice(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Doc == nil {
		logger.Warn("handleRollDice: Game not started.")
		return
	}

	var events []app.Event
	var err error
	switch state.Kind {
	case domain.GameLudo:
		events, err = state.App.RollLudoDice(state.Doc, senderID)
	case domain.GameSnakes:
		events, err = state.App.RollSnakesDice(state.Doc, senderID)
		if err == nil && state.Doc.Winner() == "" {
			state.AdvanceAtTick = state.Tick + state.AdvanceDelay
		}
	default:
		err = app.ErrWrongGameKind
	}
	if err != nil {
		logger.Warn("handleRollDice: User %s failed to roll: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handleMoveToken(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Doc == nil {
		logger.Warn("handleMoveToken: Game not started.")
		return
	}

	request := &moveTokenRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handleMoveToken: Failed to unmarshal request: %v", err)
		return
	}

	events, err := state.App.MoveLudoToken(state.Doc, senderID, request.TokenIndex)
	if err != nil {
		logger.Warn("handleMoveToken: User %s failed to move token %d: %v", senderID, request.TokenIndex, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePlaceMark(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Doc == nil {
		logger.Warn("handlePlaceMark: Game not started.")
		return
	}

	request := &placeMarkRequest{}
	if err := json.Unmarshal(msg.GetData(), request); err != nil {
		logger.Error("handlePlaceMark: Failed to unmarshal request: %v", err)
		return
	}

	events, err := state.App.PlaceMark(state.Doc, senderID, request.Cell)
	if err != nil {
		logger.Warn("handlePlaceMark: User %s failed to place mark at %d: %v", senderID, request.Cell, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	mh.persistAndBroadcast(ctx, state, dispatcher, logger, events)
}

// persistAndBroadcast writes the document through the conditional store and
// fans the events out to clients. The handler is the sole writer, so a
// version conflict means the stored copy drifted; the write is retried once
// against the fresh version.
func (mh *matchHandler) persistAndBroadcast(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	version, err := state.Store.WriteMatchState(ctx, matchID, state.Doc, state.DocVer)
	if errors.Is(err, ports.ErrVersionMismatch) {
		if _, fresh, rerr := state.Store.ReadMatchState(ctx, matchID); rerr == nil {
			version, err = state.Store.WriteMatchState(ctx, matchID, state.Doc, fresh)
		}
	}
	if err != nil {
		logger.Error("Failed to persist match state: %v", err)
	} else {
		state.DocVer = version
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	if state.Doc.Winner() != "" {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent converts an app event to its opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	switch ev.Kind {
	case app.EventMatchSetup:
		opCode = OpGameStarted
	case app.EventDiceRolled:
		opCode = OpDiceRolled
	case app.EventRollDiscarded:
		opCode = OpRollDiscarded
	case app.EventTokenMoved:
		opCode = OpTokenMoved
	case app.EventTokenCaptured:
		opCode = OpTokenCaptured
	case app.EventPawnMoved:
		opCode = OpPawnMoved
	case app.EventMarkPlaced:
		opCode = OpMarkPlaced
	case app.EventTurnChanged:
		opCode = OpTurnChanged
	case app.EventGameEnded:
		opCode = OpGameEnded
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Intended recipients who are all offline (e.g. bots) must not
		// widen into a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// snapshotPlayer is one roster entry in the state snapshot.
type snapshotPlayer struct {
	UserID      string `json:"userId"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"isOwner"`
	DisplayName string `json:"displayName"`
}

type matchSnapshot struct {
	Kind    domain.GameKind  `json:"gameKind"`
	Players []snapshotPlayer `json:"players"`
	Doc     *match.State     `json:"doc,omitempty"`
}

// broadcastSnapshot sends the roster plus the full document so late joiners
// render without replaying events.
func (mh *matchHandler) broadcastSnapshot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	ownerSeat := findFirstHumanSeat(state.Seats)

	var players []snapshotPlayer
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
			if name, err := state.Accounts.DisplayName(ctx, userId); err == nil && name != "" {
				displayName = name
			}
		} else if domain.IsAIParticipant(userId) {
			displayName = bot.GetBotDisplayName(userId)
		}

		players = append(players, snapshotPlayer{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == ownerSeat,
			DisplayName: displayName,
		})
	}

	bytes, err := json.Marshal(&matchSnapshot{Kind: state.Kind, Players: players, Doc: state.Doc})
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpStateSnapshot, bytes, nil, nil, true)
}

// broadcastRoster announces a seat change to everyone in the match.
func (mh *matchHandler) broadcastRoster(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, userID string, seat int) {
	payload := map[string]interface{}{
		"userId": userID,
		"seat":   seat,
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal roster payload: %v", err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true)
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	payload := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Doc != nil {
		phase = "playing"
		if state.Doc.Winner() != "" {
			phase = "finished"
		}
	}

	label := &matchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  string(state.Kind),
		Phase: phase,
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)

	if matchState, ok := state.(*MatchState); ok && matchState.Doc != nil {
		matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
		if adapter, ok := matchState.Store.(*NakamaStateAdapter); ok && matchID != "" {
			if err := adapter.DeleteMatchState(ctx, matchID); err != nil {
				logger.Warn("MatchTerminate: Failed to delete match state: %v", err)
			}
		}
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
