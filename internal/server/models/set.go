package models

// Set is a named collection of cards. UID is the storage key; ID is chosen by
// the client and is unique only among the owner's sets.
type Set struct {
	UID          int64
	ID           int64
	Name         string
	Type         string
	MaxQuestion  int
	QuestionTime float64
	OwnerID      int64
	Cards        []*Card
}

// Card is a question/answer pair. ID is unique only within its set.
type Card struct {
	UID            int64
	ID             int64
	Question       string
	Answer         string
	VoiceAddress   string
	PictureAddress string
	SetUID         int64
}

// DuplicateCardID reports the first card id that occurs more than once in
// the set, if any.
func (s *Set) DuplicateCardID() (int64, bool) {
	seen := make(map[int64]struct{}, len(s.Cards))
	for _, c := range s.Cards {
		if _, ok := seen[c.ID]; ok {
			return c.ID, true
		}
		seen[c.ID] = struct{}{}
	}
	return 0, false
}
