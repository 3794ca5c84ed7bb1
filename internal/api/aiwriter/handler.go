package aiwriter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Template-backed draft generation. The hosted-model integration sits
// behind a separate service; this produces the structured fallback
// output so the editor flow works without it.

type idea struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	TargetAudience string   `json:"target_audience"`
	Headlines      []string `json:"headlines"`
}

var stockHeadlines = []string{
	"5 Game-Changing Strategies You Need to Know",
	"The Secret to Building Your Audience",
	"Why Most People Fail (And How You Can Succeed)",
}

func GenerateIdeas(c *gin.Context) {
	var body struct {
		Niche string `json:"niche"`
		Count int    `json:"count"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.Count <= 0 || body.Count > 20 {
		body.Count = 5
	}

	audience := "Indie creators and entrepreneurs"
	if body.Niche != "" {
		audience = body.Niche
	}

	ideas := make([]idea, 0, body.Count)
	for i := 0; i < body.Count; i++ {
		title := fmt.Sprintf("Newsletter Idea %d", i+1)
		if body.Niche != "" {
			title += " for " + body.Niche
		}
		ideas = append(ideas, idea{
			Title:          title,
			Summary:        "An engaging newsletter that provides value to readers through actionable insights and creative content.",
			TargetAudience: audience,
			Headlines:      stockHeadlines,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ideas": ideas})
}

func GenerateNewsletter(c *gin.Context) {
	var body struct {
		Topic          string `json:"topic"`
		TargetAudience string `json:"target_audience"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Topic is required"})
		return
	}

	audience := body.TargetAudience
	if audience == "" {
		audience = "indie creators and entrepreneurs"
	}

	title := fmt.Sprintf("The %s Playbook", titleCase(body.Topic))
	summary := fmt.Sprintf("A practical deep dive into %s for %s.", body.Topic, audience)
	content := fmt.Sprintf(
		"# %s\n\nWelcome back! This week we're digging into %s.\n\n"+
			"## Why it matters\n\nFor %s, %s is one of the highest-leverage topics right now.\n\n"+
			"## Three things to try this week\n\n1. Block 30 minutes to audit how %s shows up in your work.\n"+
			"2. Pick one experiment and ship it before Friday.\n"+
			"3. Share what you learned with one other person.\n\n"+
			"See you next week!",
		title, body.Topic, audience, body.Topic, body.Topic,
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"newsletter": gin.H{
			"title":   title,
			"summary": summary,
			"content": content,
		},
	})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
