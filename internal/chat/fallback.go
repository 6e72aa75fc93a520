package chat

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// FallbackReply is used when even the fallback responder and the gateway
// both come up empty.
const FallbackReply = "I'm sorry, I'm having trouble generating a response right now. Please try again later."

var (
	reAdd = regexp.MustCompile(`what\s+is\s+(\d+)\s*\+\s*(\d+)`)
	reSub = regexp.MustCompile(`what\s+is\s+(\d+)\s*-\s*(\d+)`)
	reMul = regexp.MustCompile(`what\s+is\s+(\d+)\s*(?:\*|x|times)\s*(\d+)`)
	reDiv = regexp.MustCompile(`what\s+is\s+(\d+)\s*(?:/|divided\s+by)\s*(\d+)`)
)

var capitals = []struct {
	country string
	answer  string
}{
	{"india", "The capital of India is New Delhi."},
	{"usa", "The capital of the United States is Washington, D.C."},
	{"united states", "The capital of the United States is Washington, D.C."},
	{"uk", "The capital of the United Kingdom is London."},
	{"united kingdom", "The capital of the United Kingdom is London."},
	{"france", "The capital of France is Paris."},
	{"japan", "The capital of Japan is Tokyo."},
	{"china", "The capital of China is Beijing."},
	{"australia", "The capital of Australia is Canberra."},
	{"brazil", "The capital of Brazil is Brasília."},
	{"canada", "The capital of Canada is Ottawa."},
	{"russia", "The capital of Russia is Moscow."},
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"What do you call a fake noodle? An impasta!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised.",
	"What do you call a bear with no teeth? A gummy bear!",
}

// Fallback is a static keyword-matched responder used when the inference
// gateway is unavailable or its output is unusable. Deterministic except for
// the joke pick.
func Fallback(message string) string {
	m := strings.ToLower(message)

	if match := reAdd.FindStringSubmatch(m); match != nil {
		a, _ := strconv.Atoi(match[1])
		b, _ := strconv.Atoi(match[2])
		return fmt.Sprintf("The sum of %d and %d is %d.", a, b, a+b)
	}
	if match := reSub.FindStringSubmatch(m); match != nil {
		a, _ := strconv.Atoi(match[1])
		b, _ := strconv.Atoi(match[2])
		return fmt.Sprintf("%d minus %d equals %d.", a, b, a-b)
	}
	if match := reMul.FindStringSubmatch(m); match != nil {
		a, _ := strconv.Atoi(match[1])
		b, _ := strconv.Atoi(match[2])
		return fmt.Sprintf("%d multiplied by %d equals %d.", a, b, a*b)
	}
	if match := reDiv.FindStringSubmatch(m); match != nil {
		a, _ := strconv.Atoi(match[1])
		b, _ := strconv.Atoi(match[2])
		if b == 0 {
			return "I cannot divide by zero. Division by zero is undefined."
		}
		return fmt.Sprintf("%d divided by %d equals %.2f.", a, b, float64(a)/float64(b))
	}

	if strings.Contains(m, "capital") {
		for _, c := range capitals {
			if strings.Contains(m, c.country) {
				return c.answer
			}
		}
	}

	switch {
	case strings.Contains(m, "what is ai"), strings.Contains(m, "what is artificial intelligence"):
		return "Artificial Intelligence (AI) refers to systems or machines that mimic human intelligence to perform tasks and can iteratively improve themselves based on the information they collect. AI encompasses various technologies including machine learning, natural language processing, computer vision, and more."
	case strings.Contains(m, "what is machine learning"):
		return "Machine Learning is a subset of artificial intelligence that focuses on building systems that learn from data. Instead of explicitly programming rules, these systems identify patterns in data and make decisions with minimal human intervention."
	case strings.Contains(m, "what is chatgpt"):
		return "ChatGPT is an AI language model developed by OpenAI. It's designed to understand and generate human-like text based on the input it receives, making it useful for conversations, answering questions, creating content, and more."
	case strings.Contains(m, "what is python"):
		return "Python is a high-level, interpreted programming language known for its readability and simplicity. It's widely used in areas like web development, data analysis, artificial intelligence, scientific computing, and automation."
	case strings.Contains(m, "what is javascript"):
		return "JavaScript is a programming language primarily used for creating interactive elements on websites. It's a core technology of the World Wide Web alongside HTML and CSS, and can also be used for server-side programming with Node.js."
	}

	switch {
	case strings.Contains(m, "hello"), strings.Contains(m, "hi"):
		return "Hello there! How can I help you today?"
	case strings.Contains(m, "how are you"):
		return "I'm doing well, thank you for asking! How can I assist you?"
	case strings.Contains(m, "help"):
		return "I'd be happy to help. Please let me know what you need assistance with."
	case strings.Contains(m, "thank"):
		return "You're welcome! Is there anything else I can help with?"
	case strings.Contains(m, "bye"), strings.Contains(m, "goodbye"):
		return "Goodbye! Have a great day!"
	case strings.Contains(m, "weather"):
		return "I'm sorry, I don't have access to real-time weather data. You might want to check a weather service or app for that information."
	case strings.Contains(m, "name"):
		return "I'm an AI assistant here to help you with your questions."
	case strings.Contains(m, "joke"):
		return jokes[rand.Intn(len(jokes))]
	}

	return "I understand you're asking a question. I'm currently running in a limited mode without full access to AI capabilities. I can answer basic questions about capitals, do simple math, or provide general information about common topics. Could you try asking about one of these areas?"
}
