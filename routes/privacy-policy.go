package routes

import (
	"fmt"
	"net/http"
)

// PrivacyPolicyHandler serves the Privacy Policy content
func PrivacyPolicyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	// Serve Privacy Policy content as HTML
	html := `
	<!DOCTYPE html>
	<html lang="en">
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>Privacy Policy</title>
	</head>
	<body>
		<h1>Privacy Policy</h1>
		<p>Welcome to BlindMatch. This Privacy Policy outlines how we collect, use, and protect your data.</p>
		<p>Your identity stays hidden from your matches until you choose to reveal it. Messages that would
		expose identifying details are blocked before delivery, and the text of blocked messages is never stored.</p>
		<p>Contact us at <a href="mailto:support@blindmatch.app">support@blindmatch.app</a> for questions.</p>
	</body>
	</html>
	`
	fmt.Fprint(w, html)
}
