package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/lineofflight/changeos/internal/signals"
)

const analysisPrompt = `You are ChangeOS, an expert change management analysis system. Analyse the following signals from a change initiative and produce a structured analysis.

INITIATIVE CONTEXT:
- Name: %s
- Organisation: %s
- Timeline: %d weeks

SIGNALS:
%s

Analyse these signals through the following lenses and produce a JSON response:

1. ADOPTION CLIFF LENS: Predict likelihood of adoption failure. Look for:
   - Training effectiveness gaps (completion vs competence)
   - Manager readiness void
   - Support infrastructure mismatch
   - Resistance patterns being ignored

2. ATTRITION RISK LENS: Predict departure risk. Look for:
   - Burnout indicators
   - Disengagement signals
   - Key person overload
   - Trust erosion

3. TECHNICAL DEBT LENS: Predict permanent workarounds. Look for:
   - "Fix it later" patterns
   - Shadow systems emerging
   - Process bypass signals

For each finding, cite specific evidence from the signals.

Respond with valid JSON in this exact structure:
{
  "lastRun": "%s",
  "confidence": "HIGH/MEDIUM/LOW",
  "dataGaps": "description of what data is missing",
  "risks": {
    "adoptionCliff": {
      "level": "CRITICAL/HIGH/MEDIUM/LOW",
      "score": 0-100,
      "trend": "declining/stable/improving",
      "summary": "one sentence summary"
    },
    "attritionRisk": {
      "level": "CRITICAL/HIGH/MEDIUM/LOW",
      "score": 0-100,
      "trend": "declining/stable/improving",
      "summary": "one sentence summary"
    },
    "technicalDebt": {
      "level": "CRITICAL/HIGH/MEDIUM/LOW",
      "score": 0-100,
      "trend": "declining/stable/improving",
      "summary": "one sentence summary"
    }
  },
  "interventionWindow": {
    "weeksRemaining": number,
    "status": "OPEN/CLOSING/CLOSED",
    "message": "description of intervention window",
    "originalWindow": number
  },
  "signalClusters": {
    "cluster1": {
      "status": "severe/elevated/normal",
      "score": 0-100,
      "label": "Cluster Name",
      "evidence": ["evidence 1", "evidence 2"],
      "interpretation": "what this means"
    }
  },
  "interventions": [
    {
      "priority": 1,
      "action": "specific action",
      "timing": "when this should happen",
      "cost": "estimated cost/effort",
      "impact": "expected impact",
      "status": "recommended"
    }
  ],
  "recentSignals": [
    {
      "week": number,
      "severity": "critical/warning/info",
      "signal": "description",
      "source": "source name"
    }
  ],
  "sayDoGap": [
    {
      "said": "what was officially said",
      "reality": "what evidence shows",
      "week": number,
      "source": "source"
    }
  ],
  "keyQuotes": [
    {
      "quote": "direct quote from signals",
      "speaker": "who said it",
      "week": number,
      "context": "context"
    }
  ]
}

Be specific. Cite evidence. If data is insufficient for confident claims, say so and rate confidence accordingly.`

// signalSeparator divides signals in the prompt.
const signalSeparator = "\n\n---\n\n"

// FormatSignals renders signals as prompt text, one block per signal.
func FormatSignals(list []signals.Signal) string {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		parts = append(parts, fmt.Sprintf("[%s - Week %d] %s\n%s",
			strings.ToUpper(string(s.Type)), s.Week, s.Title, s.Content))
	}
	return strings.Join(parts, signalSeparator)
}

// BuildPrompt assembles the full analysis prompt.
func BuildPrompt(list []signals.Signal, initiative signals.Initiative, now time.Time) string {
	initiative = initiative.Normalize()
	return fmt.Sprintf(analysisPrompt,
		initiative.Name,
		initiative.Organisation,
		initiative.Timeline,
		FormatSignals(list),
		now.UTC().Format("2006-01-02T15:04:05.000Z"),
	)
}
