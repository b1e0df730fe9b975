package interview

import "fmt"

const interviewerPersona = "You are an interviewing agent. Your goal is to evaluate whether a " +
	"candidate agent is suitable for a TASK by asking it questions."

const judgePersona = "You are a strict JSON-producing judge. No extra text."

func questionPrompt(task string) string {
	return fmt.Sprintf(`TASK: %s

Generate ONE clear, concrete interview question you would ask the candidate agent
to see if it can handle this task.
Just output the question text.`, task)
}

func judgePrompt(task, question, answer string) string {
	return fmt.Sprintf(`You interviewed a candidate agent.

TASK: %s

INTERVIEW QUESTION: %s

CANDIDATE ANSWER: %s

On a scale from 1 to 10, how suitable is this agent for the task?
Return STRICT JSON: {"score": <int 1-10>, "justification": "<short reason>"}`, task, question, answer)
}
