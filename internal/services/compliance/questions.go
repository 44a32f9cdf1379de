package compliance

import "fmt"

// Варианты ответов анкеты и их вклад в итоговый балл.
const (
	AnswerFullyImplemented     = "Yes, fully implemented"
	AnswerPartiallyImplemented = "Partially implemented"
	AnswerInPlanning           = "In planning"
	AnswerNo                   = "No"
)

var answerScores = map[string]int{
	AnswerFullyImplemented:     100,
	AnswerPartiallyImplemented: 66,
	AnswerInPlanning:           33,
	AnswerNo:                   0,
}

// questionTexts хранит формулировки по каждому из пяти вопросов анкеты:
// как сильная сторона, зона роста и действия на разных горизонтах.
type questionTexts struct {
	strength    string
	improvement string
	shortTerm   string
	mediumTerm  string
}

var questions = map[int]questionTexts{
	1: {
		strength:    "Information security policy in place",
		improvement: "Formal information security policy",
		shortTerm:   "Develop a basic information security policy document",
		mediumTerm:  "Align security policy with NIS2 requirements and get management approval",
	},
	2: {
		strength:    "Supply chain security measures implemented",
		improvement: "Supply chain security measures",
		shortTerm:   "Create an inventory of critical suppliers",
		mediumTerm:  "Develop formal supply chain risk assessment procedures",
	},
	3: {
		strength:    "Vulnerability handling processes established",
		improvement: "Vulnerability handling processes",
		shortTerm:   "Implement basic vulnerability scanning on critical systems",
		mediumTerm:  "Establish a structured vulnerability disclosure process",
	},
	4: {
		strength:    "Access control and identity management policies",
		improvement: "Access control and identity management",
		shortTerm:   "Review and document current access control practices",
		mediumTerm:  "Implement role-based access control across all systems",
	},
	5: {
		strength:    "Incident response procedures implemented",
		improvement: "Incident response procedures",
		shortTerm:   "Create a simple incident response plan template",
		mediumTerm:  "Test and refine incident response procedures",
	},
}

// Базовые стратегические действия и дополнения для слабых областей 1-3.
var baseLongTermActions = []string{
	"Implement a comprehensive security monitoring and threat detection system",
	"Conduct regular third-party security assessments",
	"Develop a holistic NIS2 compliance program with regular reviews",
}

var extraLongTermActions = map[int]string{
	1: "Integrate security policy into organization-wide governance framework",
	2: "Establish continuous supply chain security monitoring and assessment",
	3: "Build a mature vulnerability management program with automated workflows",
}

func strengthText(questionID int) string {
	if q, ok := questions[questionID]; ok {
		return q.strength
	}
	return fmt.Sprintf("Strength in area %d", questionID)
}

func improvementText(questionID int) string {
	if q, ok := questions[questionID]; ok {
		return q.improvement
	}
	return fmt.Sprintf("Improvement needed in area %d", questionID)
}

func shortTermText(questionID int) string {
	if q, ok := questions[questionID]; ok {
		return q.shortTerm
	}
	return fmt.Sprintf("Address gap in area %d", questionID)
}

func mediumTermText(questionID int) string {
	if q, ok := questions[questionID]; ok {
		return q.mediumTerm
	}
	return fmt.Sprintf("Enhance capabilities in area %d", questionID)
}
