package ws

// ClientMsg é a mensagem recebida do navegador; hoje só "ping"
type ClientMsg struct {
	Type string `json:"type"`
}

// ServerMsg é enviada aos clientes: "summary" após cada mutação, "pong" em resposta a ping
type ServerMsg struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
