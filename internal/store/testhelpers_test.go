package store

import (
	"time"

	"github.com/sells-group/clinic-quiz/internal/model"
)

func sampleSubmission(name string, ts time.Time) model.Submission {
	return model.Submission{
		Timestamp:           ts,
		Name:                name,
		Phone:               "010-1234-5678",
		ClinicName:          "서울 \"스마일\" 치과",
		Email:               "owner@example.com",
		RecommendedSolution: "입소문 중심 병원의 디지털 전환",
		Answers: []model.Answer{
			{QuestionID: 1, Answer: "basic"},
			{QuestionID: 4, Answer: "content,conversion"},
		},
		HasInquiry: true,
	}
}
