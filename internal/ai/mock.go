package ai

import (
	"context"
	"strings"
)

const mockStreamChunkRunes = 48

// MockCompleter substitutes for the hosted provider when no API key is
// configured. It scans the inbound message for career topic keywords and
// returns the first matching canned template; it never touches the network
// and never fails.
type MockCompleter struct{}

func NewMockCompleter() *MockCompleter { return &MockCompleter{} }

func (m *MockCompleter) Offline() bool { return true }

func (m *MockCompleter) Model() string { return "mock" }

func (m *MockCompleter) Chat(_ context.Context, messages []Message) (string, error) {
	return m.respond(lastUserContent(messages)), nil
}

// ChatStream chunks the canned response so the streaming surface behaves
// the same offline as against the hosted provider.
func (m *MockCompleter) ChatStream(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	contentCh := make(chan string)
	errCh := make(chan error, 1)

	response := m.respond(lastUserContent(messages))

	go func() {
		defer close(contentCh)
		defer close(errCh)

		for _, chunk := range chunkByRunes(response, mockStreamChunkRunes) {
			select {
			case contentCh <- chunk:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return contentCh, errCh
}

func lastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func chunkByRunes(text string, size int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func (m *MockCompleter) respond(userMessage string) string {
	lower := strings.ToLower(userMessage)

	if containsAny(lower, "career", "job", "work", "profession") {
		if containsAny(lower, "change", "switch", "transition") {
			return mockCareerChangeResponse
		}
		if containsAny(lower, "should", "pursue", "choose") {
			return mockCareerChoiceResponse
		}
	}

	if containsAny(lower, "resume", "cv") {
		return mockResumeResponse
	}

	if containsAny(lower, "interview", "interviewing") {
		return mockInterviewResponse
	}

	return mockGenericResponse
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

const mockCareerChangeResponse = `Great question about career transitions! Here are some key steps to consider:

**Self-Assessment**:
- Identify your transferable skills and strengths
- Clarify your values and what you want in your next role
- Assess your interests and passion areas

**Research & Planning**:
- Explore new industries and roles that align with your goals
- Research salary ranges and growth potential
- Identify skill gaps and create a learning plan

**Network & Connect**:
- Reach out to professionals in your target field
- Attend industry events and online communities
- Consider informational interviews

**This Week's Action Items:**
1. Write down 3 specific roles you'd like to explore
2. Identify 5 people in those fields to connect with on LinkedIn
3. Research one online course or certification relevant to your target field

What specific aspect of career change would you like to explore further?`

const mockCareerChoiceResponse = `Excellent question! Let me help you explore career paths that align with your strengths and interests.

**Career Exploration Strategy**:
- **Skills-Based Approach**: Look for roles that utilize your strongest abilities
- **Interest-Driven Path**: Consider fields that align with what excites you
- **Market Opportunity**: Research growing industries and emerging roles
- **Values Alignment**: Ensure the work environment matches your priorities

**Popular Growing Fields**:
- **Technology**: AI/ML, Cybersecurity, Cloud Computing, Data Science
- **Healthcare**: Telehealth, Mental Health, Healthcare Technology
- **Sustainability**: Renewable Energy, Environmental Consulting
- **Digital Marketing**: Content Creation, Social Media Strategy, SEO

**This Week's Action Items:**
1. List your top 5 skills and top 3 interests
2. Research 3 career paths that combine both
3. Schedule one informational interview

What industries or types of work have you been curious about lately?`

const mockResumeResponse = `Let's optimize your resume for maximum impact!

**Resume Optimization Strategy**:

**Structure & Format**:
- Clean, ATS-friendly design with clear sections
- Professional summary highlighting your value proposition
- Reverse chronological work experience
- Skills section with relevant keywords

**Content Enhancement**:
- Use action verbs and quantify achievements (increased, reduced, managed)
- Tailor content to each job application
- Include relevant keywords from job postings
- Focus on accomplishments, not just duties

**This Week's Action Items:**
1. Rewrite your professional summary with specific achievements
2. Add metrics to at least 3 bullet points in your experience section
3. Research and add 5 relevant keywords from target job postings

Would you like me to help with a specific section of your resume?`

const mockInterviewResponse = `Interview preparation is crucial for success! Here's your action plan:

**Before the Interview**:
- Research the company, role, and interviewer
- Prepare STAR method examples for common questions
- Practice your elevator pitch and key talking points
- Prepare thoughtful questions to ask the interviewer

**During the Interview**:
- Arrive early and dress appropriately
- Maintain good eye contact and positive body language
- Provide specific examples with measurable results
- Ask engaging questions about the role and company

**Common Questions to Prepare**:
- "Tell me about yourself"
- "Why are you interested in this role?"
- "What's your greatest strength/weakness?"
- "Describe a challenge you overcame"

**This Week's Action Items:**
1. Prepare 5 STAR method stories showcasing different skills
2. Research the company's recent news and initiatives
3. Practice your responses out loud or with a friend

What type of interview are you preparing for? I can provide more specific guidance!`

const mockGenericResponse = `Hi there! Thanks for reaching out to CareerWise AI, your personal career guidance assistant.

I'm here to help you navigate every aspect of your professional journey:

- **Career Planning**: Explore paths, set goals, and create actionable plans
- **Job Search Strategy**: Resume optimization, interview prep, and networking
- **Skill Development**: Identify growth opportunities and learning resources
- **Career Advancement**: Leadership development and promotion strategies
- **Career Transitions**: Navigate industry changes or role switches

**Popular Questions I Help With**:
- "What career should I pursue?"
- "How can I improve my resume?"
- "What skills should I develop next?"
- "How do I prepare for interviews?"
- "How can I negotiate my salary?"

What's your most pressing career question right now? The more details you share, the more personalized guidance I can provide!`
