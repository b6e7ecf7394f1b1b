package services

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TripPlan is a validated trip request with codes already turned into phrases.
type TripPlan struct {
	Destination        string
	StartDate          time.Time
	Duration           int
	Companions         string
	Activities         []string
	OriginLocation     string
	TransportationMode string
}

// EndDate is the last day of the trip, start + duration - 1.
func (p TripPlan) EndDate() time.Time {
	return p.StartDate.AddDate(0, 0, p.Duration-1)
}

// hasTravelLeg reports whether travel cost to the destination can be estimated.
func (p TripPlan) hasTravelLeg() bool {
	return p.OriginLocation != "" && p.TransportationMode != ""
}

// TripDuration counts calendar days with both endpoints included: the same start and
// end date is a one day trip. Clock time and zone offsets are ignored. The result is
// never below 1.
func TripDuration(start, end time.Time) int {
	days := (calendarDay(end)-calendarDay(start))/secondsPerDay + 1
	if days < 1 {
		return 1
	}
	return int(days)
}

const secondsPerDay = 24 * 60 * 60

// calendarDay is the Unix time of t's date at UTC midnight. Unix seconds stay exact
// for ranges that overflow a time.Duration.
func calendarDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// BuildPrompt renders plan into the instruction sent to the text-generation backend.
func BuildPrompt(plan TripPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a personalized %d-day trip itinerary for %s from %s to %s.\n",
		plan.Duration, plan.Destination, plan.StartDate.Format(dateLayout), plan.EndDate().Format(dateLayout))
	fmt.Fprintf(&b, "This is for a %s trip focusing on these activities: %s.\n",
		plan.Companions, joinPhrases(plan.Activities))

	if plan.hasTravelLeg() {
		b.WriteString("\nTravel Information:\n")
		fmt.Fprintf(&b, "- Starting from: %s\n", plan.OriginLocation)
		fmt.Fprintf(&b, "- Transportation mode: %s\n", plan.TransportationMode)
	}

	b.WriteString("\nPlease include:\n")
	fmt.Fprintf(&b, "1. A brief introduction to %s highlighting why it's perfect for this type of trip\n", plan.Destination)
	b.WriteString("2. A day-by-day itinerary with clear Morning, Afternoon, and Evening sections for each day\n")
	b.WriteString("3. At least 3 specific attraction recommendations with brief descriptions\n")
	b.WriteString("4. 2-3 restaurant recommendations that match the traveler's interests\n")
	b.WriteString("5. 1-2 insider tips that most tourists might not know about\n")

	b.WriteString("\nCOST ESTIMATION SECTION:\n")
	if plan.hasTravelLeg() {
		fmt.Fprintf(&b, "6. Detailed travel cost from %s to %s via %s, including:\n",
			plan.OriginLocation, plan.Destination, plan.TransportationMode)
		fmt.Fprintf(&b, "   - Ticket prices for %s (round trip)\n", plan.TransportationMode)
		b.WriteString("   - Any additional transportation costs (airport transfers, taxis, etc.)\n")
	}
	b.WriteString("7. Estimated daily expenses breakdown:\n")
	b.WriteString("   - Accommodations (options for budget, mid-range, and luxury)\n")
	b.WriteString("   - Food (average cost per meal and daily total)\n")
	b.WriteString("   - Activities and attractions (entrance fees, tours, etc.)\n")
	b.WriteString("   - Local transportation\n")
	b.WriteString("   - Miscellaneous expenses\n")
	b.WriteString("8. Total estimated budget range for the entire trip\n")

	b.WriteString(`
Format the response in HTML with the following structure:
- Use <h1> for the main title
- Use <h2> for day headers like "Day 1" and section headers
- Use <h3> for subsections
- Use <p> for paragraphs
- Use <ul> or <ol> for lists
- Each day should have clear Morning, Afternoon, and Evening sections
- Format restaurant names in bold
- Prefix insider tips with "Tip: " for easy identification
- Include a "Cost Estimation" section with detailed breakdown of expenses
- Use <div class="cost-estimation"> to wrap the cost estimation section
`)

	fmt.Fprintf(&b, "\nIMPORTANT: Make sure the content is detailed, specific to %s, and matches the travel preferences.\n",
		plan.Destination)
	if plan.hasTravelLeg() {
		fmt.Fprintf(&b, "Include realistic cost estimations for travel between %s and %s.\n",
			plan.OriginLocation, plan.Destination)
	}

	return b.String()
}
