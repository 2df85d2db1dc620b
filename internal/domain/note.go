package domain

import "time"

type NotePhase string

const (
	NotePhasePreparation NotePhase = "preparation"
	NotePhaseLive        NotePhase = "temps_reel"
	NotePhaseConclusion  NotePhase = "conclusion"
)

func (p NotePhase) Valid() bool {
	switch p {
	case NotePhasePreparation, NotePhaseLive, NotePhaseConclusion:
		return true
	default:
		return false
	}
}

type Note struct {
	ID          int64     `json:"id"`
	InterviewID int64     `json:"entretien_id"`
	Section     string    `json:"section"`
	Content     string    `json:"contenu"`
	Phase       NotePhase `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
