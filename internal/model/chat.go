package model

// ChatMessage is one turn of the conversation sent by the client.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the payload for POST /api/chat/generate.
type ChatRequest struct {
	History []ChatMessage `json:"history" binding:"required,min=1,dive"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}
