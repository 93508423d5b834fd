package domain

import (
	"github.com/CazadorHJT/MCAT-Prep-App/internal/domain/content"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/domain/progress"
)

const (
	DefaultDifficulty = content.DefaultDifficulty
	EphemeralIDPrefix = content.EphemeralIDPrefix
)

type Book = content.Book
type Chapter = content.Chapter
type Question = content.Question

type UserProgress = progress.UserProgress
type ConceptMastery = progress.ConceptMastery
type ProgressStats = progress.Stats

var (
	IsEphemeralID    = content.IsEphemeralID
	NewProgressStats = progress.NewStats
)
