package service

import "strings"

// ClassifierResult is the synthesized assistant reply for a query: canned
// content plus the documents cited as sources. Fallback marks that no rule
// matched and the default reply was used.
type ClassifierResult struct {
	Topic    string
	Content  string
	Sources  []string
	Fallback bool
}

// classifierRule matches a query when any of its keywords occurs in the
// lowercased input.
type classifierRule struct {
	topic    string
	keywords []string
	content  string
	sources  []string
}

// classifierRules is checked in order and the first match wins, so a query
// containing keywords of several rules resolves to the earliest one. The
// order itself is part of the contract; do not reorder.
var classifierRules = []classifierRule{
	{
		topic:    "leave",
		keywords: []string{"leave", "vacation", "pto"},
		content:  "According to the Employee Handbook 2025, the company offers 20 days of annual leave, 10 sick days, and 3 personal days per year. Leave requests should be submitted at least 2 weeks in advance.",
		sources:  []string{"Employee Handbook 2025"},
	},
	{
		topic:    "security",
		keywords: []string{"security", "password", "mfa"},
		content:  "Our IT Security Policy requires all employees to use multi-factor authentication, maintain strong passwords (minimum 12 characters), and report any suspicious activity immediately to the security team.",
		sources:  []string{"IT Security Policy"},
	},
	{
		topic:    "vpn",
		keywords: []string{"vpn", "network", "connect"},
		content:  "To set up the company VPN, download the client from the IT portal, install with default settings, and connect using server address vpn.aegisai.internal with your company credentials.",
		sources:  []string{"IT Security Policy", "Network Architecture Diagram"},
	},
	{
		topic:    "budget",
		keywords: []string{"budget", "financial", "revenue"},
		content:  "The annual budget plan outlines department allocations for the fiscal year. For specific budget inquiries, please refer to the Q1 Financial Report or contact the finance department.",
		sources:  []string{"Annual Budget Plan", "Q1 Financial Report"},
	},
}

var classifierDefault = classifierRule{
	topic:    "default",
	keywords: nil,
	content:  "I found some relevant information in your company documents. Based on the available data, I can help you with that. Could you provide more specific details about what you're looking for?",
	sources:  []string{"Employee Handbook 2025"},
}

// Classify assigns the query a topic bucket and produces the canned reply and
// citations. It is deterministic and stateless: same input, same output.
func Classify(text string) ClassifierResult {
	lower := strings.ToLower(text)

	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return ClassifierResult{
					Topic:   rule.topic,
					Content: rule.content,
					Sources: append([]string(nil), rule.sources...),
				}
			}
		}
	}

	return ClassifierResult{
		Topic:    classifierDefault.topic,
		Content:  classifierDefault.content,
		Sources:  append([]string(nil), classifierDefault.sources...),
		Fallback: true,
	}
}
