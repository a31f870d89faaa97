package service

import (
	"fmt"
	"strings"
	"study_planner_backend/internal/util"
	"time"
)

const topicPromptTemplate = `Given the following syllabus text, split the syllabus into at least 20 different learning objectives about the course only, each with a title. Don't include things such as course guidelines, grading, attendance, academic integrity or other administrative policies, only the topics related to the class subject itself.

Syllabus:
%s

Return one title per line with no numbering, bullets or extra commentary, like this:

Introduction to Formal Languages
Understand the Concept of Automata
Comprehend Turing Machines
`

// BuildTopicPrompt 主题抽取的固定模板
func BuildTopicPrompt(syllabus string) string {
	return fmt.Sprintf(topicPromptTemplate, strings.TrimSpace(syllabus))
}

const roadmapPromptTemplate = `You are an assistant helping a student prepare a study plan.
They have from %[1]s until %[2]s to learn these topics:

%[3]s

Generate a detailed plan that includes an ordered list of steps. This plan must be the most efficient way for the student to complete learning all their course content within the time frame that they have. Be precise with the study plan and go into detail. If the student has more time, then include shorter but more frequent steps. If the student does not have a lot of time, then include longer steps.

For each step, provide:
- "step_order" (integer position of the step, starting at 1)
- "step_name" (short name of the step)
- "topic_title" (exactly one of the topic titles above, or "%[4]s" if the step combines multiple topics)
- "bullet_points": actionable steps the student can take to complete that step as a whole
- "eta": the estimated time it will take the student to complete that step
- "due_date": in YYYY-MM-DD format, between %[1]s and %[2]s inclusive (spread the steps across the range)
- "resource": a real URL or short citation for learning (a tutorial, documentation page, or article). Do not use Wikipedia and do not use placeholder links.

Output ONLY a valid JSON array, with no surrounding text. Example:

[
  {
    "step_order": 1,
    "step_name": "Introduction to X",
    "topic_title": "%[5]s",
    "bullet_points": ["Review definitions", "Work through examples"],
    "eta": "2 hours",
    "due_date": "%[1]s",
    "resource": "https://www.w3schools.com/some-tutorial"
  }
]
`

// MixedTopicMarker 组合多个主题的步骤使用的标记，不会匹配任何主题
const MixedTopicMarker = "mixed"

func BuildRoadmapPrompt(start, end time.Time, topicTitles []string) string {
	var list strings.Builder
	for i, t := range topicTitles {
		if i > 0 {
			list.WriteString("\n")
		}
		list.WriteString("- ")
		list.WriteString(t)
	}

	example := "Finite Automata"
	if len(topicTitles) > 0 {
		example = topicTitles[0]
	}

	return fmt.Sprintf(roadmapPromptTemplate,
		start.Format(util.DateFormat),
		end.Format(util.DateFormat),
		list.String(),
		MixedTopicMarker,
		example,
	)
}
