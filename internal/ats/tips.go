package ats

import "regexp"

const maxTips = 6

// DefaultTip is returned when no rule fires.
const DefaultTip = "Your resume looks good! Keep it updated with your latest achievements."

// Rule produces advice when its condition holds for a resume.
type Rule struct {
	Name string
	When func(text string, score int) bool
	Tips []string
}

func missing(pattern *regexp.Regexp) func(string, int) bool {
	return func(text string, _ int) bool { return !pattern.MatchString(text) }
}

func scoreBelow(limit int) func(string, int) bool {
	return func(_ string, score int) bool { return score < limit }
}

// Rules are evaluated in this order; the order decides which tips survive the cap.
var Rules = []Rule{
	{
		Name: "experience_section",
		When: missing(wordPattern(`experience|work experience|employment`)),
		Tips: []string{"Add a 'Work Experience' section with your job history"},
	},
	{
		Name: "education_section",
		When: missing(wordPattern(`education|academic|degree|university`)),
		Tips: []string{"Include an 'Education' section with your qualifications"},
	},
	{
		Name: "skills_section",
		When: missing(wordPattern(`skills|technical skills|competencies`)),
		Tips: []string{"Add a 'Skills' section listing your technical abilities"},
	},
	{
		Name: "email",
		When: missing(emailPattern),
		Tips: []string{"Add your email address at the top of your resume"},
	},
	{
		Name: "phone",
		When: missing(phonePattern),
		Tips: []string{"Include your phone number in the contact section"},
	},
	{
		Name: "too_short",
		When: func(text string, _ int) bool { return wordCount(text) < minFormattedWords },
		Tips: []string{"Expand your resume with more detailed descriptions of your work"},
	},
	{
		Name: "too_long",
		When: func(text string, _ int) bool { return wordCount(text) > maxFormattedWords },
		Tips: []string{"Make your resume more concise - aim for 1-2 pages maximum"},
	},
	{
		Name: "bullets",
		When: func(text string, _ int) bool { return !containsAny(text, tipBulletMarkers) },
		Tips: []string{"Use bullet points to make your achievements easier to read"},
	},
	{
		Name: "action_verbs",
		When: func(text string, _ int) bool { return !hasActionVerb(text) },
		Tips: []string{"Start bullet points with strong action verbs like 'achieved', 'managed', 'developed'"},
	},
	{
		Name: "quantified",
		When: func(text string, _ int) bool { return !hasQuantified(text) },
		Tips: []string{"Include specific numbers and percentages to quantify your achievements"},
	},
	{
		Name: "standard_headings",
		When: scoreBelow(70),
		Tips: []string{
			"Use standard section headings like 'Work Experience', 'Education', 'Skills'",
			"Avoid using images, tables, or fancy formatting that ATS systems can't read",
		},
	},
	{
		Name: "first_person",
		When: func(text string, _ int) bool { return usesFirstPerson(text) },
		Tips: []string{"Write in third person - avoid using 'I', 'my', or 'me'"},
	},
	{
		Name: "general",
		When: scoreBelow(80),
		Tips: []string{
			"Save your resume as a PDF to preserve formatting",
			"Use keywords from job descriptions you're applying to",
		},
	},
}

// Tips runs every rule against text and keeps the first six tips produced.
// With no tips it returns DefaultTip alone.
func Tips(text string, score int) []string {
	return applyRules(Rules, text, score)
}

func applyRules(rules []Rule, text string, score int) []string {
	var tips []string
	for _, rule := range rules {
		if rule.When(text, score) {
			tips = append(tips, rule.Tips...)
		}
	}

	if len(tips) == 0 {
		return []string{DefaultTip}
	}

	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}

	return tips
}
