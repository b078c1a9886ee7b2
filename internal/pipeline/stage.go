package pipeline

// Stage is a step of a run. A run only ever moves forward through the stages.
type Stage int

const (
	StageIdle Stage = iota
	StageCleaning
	StageLanguageSampling
	StageScoring
	StageKeywordExtraction
	StageSummarizing
	StageDone
)

var stageNames = [...]string{
	StageIdle:              "idle",
	StageCleaning:          "cleaning",
	StageLanguageSampling:  "language_sampling",
	StageScoring:           "scoring",
	StageKeywordExtraction: "keyword_extraction",
	StageSummarizing:       "summarizing",
	StageDone:              "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
