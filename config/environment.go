package config

// Environment selects one of the known PizzaGPT deployments.
type Environment string

const (
	Production  Environment = "production"
	Staging     Environment = "staging"
	Development Environment = "development"
)

// EndpointChatCompletion is the path segment of the chat completion API,
// served under {base}/api/.
const EndpointChatCompletion = "chatx-completion"

var environmentURLs = map[Environment]string{
	Production:  "https://www.pizzagpt.it",
	Staging:     "https://staging.pizzagpt.it",
	Development: "https://dev.pizzagpt.it",
}

// BaseURL returns the deployment's base URL, or an empty string for an
// unknown environment.
func (e Environment) BaseURL() string {
	return environmentURLs[e]
}

// Valid reports whether e names a known deployment.
func (e Environment) Valid() bool {
	_, ok := environmentURLs[e]
	return ok
}
