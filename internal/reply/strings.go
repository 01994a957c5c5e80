// Package reply holds every user-facing message the bot sends.
package reply

import "fmt"

const (
	BotName = "Daily Tutor"

	BotDescription = "Daily Tutor provides daily practice with custom problems, tracks your progress, and delivers quick, personalized feedback. Type /subject to pick a subject!"

	BotShortDescription = "Daily Tutor helps you practice daily, offering personalized problems, tracking progress, and giving instant feedback."
)

// Command menu descriptions.
const (
	MenuSubject = "Set or review the subject you're currently focusing on. This helps me tailor questions just for you."

	MenuMemo = "Provide any additional memo you'd like me to consider when assisting you. Your notes help me understand what's important to you."

	MenuHint = "Get a hint on how to solve the most recent question. This is helpful if you're stuck on an answer."

	MenuQuestion = "Get a new question right away based on your current subject. Let's keep your learning on track!"

	MenuSolve = "Submit your solution to the latest question. I'll evaluate it and provide feedback to help you improve."

	MenuGiveUp = "Give up and submit your solution to the latest question. I'll evaluate it and provide feedback to help you improve."

	MenuFreeTalk = "Chat with me about anything regarding your subject! No question needed."
)

const (
	SubjectUpdatedTemplate = "Great choice! Your subject is now set to %q. I will generate a tailored question for you by tomorrow, or if you're ready to dive in now, just type /question to get your first challenge!"

	CurrentSubjectTemplate = "Your current subject is: %s. I am working on a new question that you'll receive tomorrow. If you're eager to get started now, use /question to try a question immediately."

	NoSubject = "It looks like you haven't set a subject yet. The subject helps me focus on what's most important to you. " +
		"To set your subject, use /subject followed by your topic of interest. Once you've set it, you'll receive a new question tomorrow, or you can jump in right away by typing /question."

	MemoUpdated = "Your memo has been updated successfully! This memo will help me understand what's important to you. " +
		"Feel free to update it anytime as your focus changes."

	CurrentMemoTemplate = "Here's your current memo:\n> %s\n\n" +
		"This memo is used by me to better assist you. If you need to change it, just use /memo followed by your updated information."

	NoMemo = "You haven't set a memo yet. A memo helps me understand what's important to you right now. " +
		"To set your memo, use /memo followed by your notes, and I will use this to better assist you."

	PromptSetSubject = "It seems you haven't told me your subject yet! The subject helps me tailor questions just for you. " +
		"Please set your subject using /subject before we can generate a question."

	GeneratingQuestion = "Hang tight! I'm crafting a question just for you. This will only take a moment..."

	QuestionGenerationFailed = "Oops, something went wrong while generating your question. Please try again later while our technicians look into the issue."

	QuestionReadyTemplate = "Here's your %s question: %s\n" +
		"Take your time to think it through. Feel free to talk to me to get help if you need it.\n" +
		"When you're ready, feel free to start solving it with /solve!"

	NoSession = "I couldn't find an active session. This doesn't happen often, but it means I can't find our conversation. " +
		"Please start a new session with /question and I'll get you a fresh challenge. Sorry about this!"

	CheckingSolution = "Thanks! Let me submit your answer to the judge. We'll see how you did shortly!"

	SubmitSolutionPrompt = "It seems you forgot to include your answer. Please submit it with /solve followed by your answer, so I can help you evaluate it."

	TutorError = "Oops, something went wrong on my end. I'm sorry about that! Please try again in a little bit, and I'll be here to help."

	TutorApology = "Whoops! I had a problem answering that. Give me a moment and try again."

	JudgeUnavailable = "Whoops! The judge seems to be having an issue right now, so I couldn't score this attempt. Please try /solve again in a little bit."

	AdminDeliveredDailyQuestion = "\U0001F389 Delivered the daily question!"
)

// StartTemplate greets a learner by first name.
const StartTemplate = "Hey %s! We're excited to have you here. To get started, please set your subject using /subject followed by the topic you're interested in. " +
	"Once you've set your subject, I will prepare a question for you. You'll receive a new question tomorrow, but if you're eager to start, you can try a question right away using /question."

// Start formats the greeting for /start.
func Start(firstName string) string {
	return fmt.Sprintf(StartTemplate, firstName)
}

// SubjectUpdated confirms a subject change.
func SubjectUpdated(subject string) string {
	return fmt.Sprintf(SubjectUpdatedTemplate, subject)
}

// CurrentSubject shows the subject currently set.
func CurrentSubject(subject string) string {
	return fmt.Sprintf(CurrentSubjectTemplate, subject)
}

// CurrentMemo shows the memo currently set.
func CurrentMemo(memo string) string {
	return fmt.Sprintf(CurrentMemoTemplate, memo)
}

// QuestionReady announces a freshly generated question.
func QuestionReady(subject, question string) string {
	return fmt.Sprintf(QuestionReadyTemplate, subject, question)
}
