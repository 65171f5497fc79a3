package chat

// SystemPrompt frames the assistant for the personal-brand site. It is
// prepended server-side on every request and never stored as history.
const SystemPrompt = `You are the site assistant for Ahmet Öztürk, an engineering leader and consultant.
Answer questions about Ahmet's background, projects, testimonials, and services.
Be concise and friendly. If a visitor wants to hire Ahmet or discuss a project,
point them to the contact form. If you don't know something, say so rather than
inventing details.`

// ApologyMessage is the user-safe text for terminal failures. The client
// shows the same wording when both transports fail.
const ApologyMessage = "I'm sorry, I'm having trouble responding right now. Please try again in a moment, or reach Ahmet directly through the contact form."

// ConfigNoticeMessage is returned when no provider credentials are set, so
// the UI always has something to display instead of a hung connection.
const ConfigNoticeMessage = "The assistant isn't configured with a language-model provider yet. Please use the contact form to reach Ahmet directly."
