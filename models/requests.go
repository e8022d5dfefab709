package models

// CreateQuizRequest is the nested payload accepted by POST /quizzes.
type CreateQuizRequest struct {
	Title     string                  `json:"title" binding:"required,notblank"`
	Questions []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text    string                `json:"text"`
	Type    QuestionType          `json:"type" binding:"required,oneof=BOOLEAN INPUT CHECKBOX"`
	Options []CreateOptionRequest `json:"options" binding:"required,dive"`
}

type CreateOptionRequest struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}
