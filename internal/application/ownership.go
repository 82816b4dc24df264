package application

// canMutate is the ownership guard: a post or comment may only be
// mutated by its author. Staff and superuser flags are deliberately not
// consulted here; they gate the administrative surface only.
func canMutate(actorID, authorID string) bool {
	return actorID != "" && actorID == authorID
}
