// Package marketing holds the static home screen copy and the image-pair
// marquee shown beneath the hero.
package marketing

import (
	"fmt"
	"time"
)

// Brand is the product name shown in the navbar and footer.
const Brand = "LibaasAI"

// Hero is the landing section.
type Hero struct {
	Title     []string
	Body      string
	Primary   string
	Secondary string
}

// Step is one card of the how-it-works section.
type Step struct {
	Title       string
	Description string
}

// Link is a named navigation target.
type Link struct {
	Name   string
	Target string
}

// DefaultHero returns the landing copy.
func DefaultHero() Hero {
	return Hero{
		Title: []string{"Your Wardrobe,", "Reimagined"},
		Body: "Transform your style with LibaasAI - the intelligent wardrobe " +
			"assistant that understands your personal fashion, Pakistani heritage, " +
			"and creates perfect outfit combinations for every occasion.",
		Primary:   "Get Started",
		Secondary: "Try a demo",
	}
}

// HowItWorksIntro is the subtitle above the steps.
const HowItWorksIntro = "Three simple steps to transform your style experience with AI-powered fashion intelligence."

// Steps returns the how-it-works cards in order.
func Steps() []Step {
	return []Step{
		{
			Title:       "Capture Your Wardrobe",
			Description: "Take photos of your clothes, traditional wear, and accessories. Our AI recognizes patterns, colors, and styles instantly.",
		},
		{
			Title:       "AI Learns Your Style",
			Description: "LibaasAI analyzes your wardrobe, understanding your preferences, body type, and personal fashion sense.",
		},
		{
			Title:       "Get Perfect Matches",
			Description: "Receive personalized outfit suggestions for any occasion. Shop smarter with product recommendations that match your wardrobe.",
		},
	}
}

// Footer is the bottom section of the home screen.
type Footer struct {
	Tagline string
	Explore []Link
	Social  []string
}

// DefaultFooter returns the footer content. Explore targets are screen names.
func DefaultFooter() Footer {
	return Footer{
		Tagline: "Your intelligent wardrobe assistant, bringing the perfect blend of Pakistani fashion heritage and cutting-edge AI technology.",
		Explore: []Link{
			{Name: "My Wardrobe", Target: "wardrobe"},
			{Name: "Generate Look", Target: "generate"},
			{Name: "Profile", Target: "profile"},
		},
		Social: []string{"Twitter", "Instagram", "LinkedIn"},
	}
}

// Copyright returns the footer line for the year of now.
func Copyright(now time.Time) string {
	return fmt.Sprintf("© %d %s. Crafted with passion for Pakistani fashion.", now.Year(), Brand)
}
