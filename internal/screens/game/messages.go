package game

// roundDoneMsg reports that a fetch finished and was handed to the game.
// Applied is false when the result was stale and dropped.
type roundDoneMsg struct {
	Applied bool
}
