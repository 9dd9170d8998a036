// Package telephony binds the dialog's declarative actions to Twilio:
// TwiML rendering for webhook responses and REST call origination for
// the outbound briefing.
package telephony

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twilio/twilio-go/twiml"

	"github.com/jasonisamilehigh/taskme/internal/dialog"
)

// Render translates dialog actions into a TwiML voice document. Gather
// and redirect targets are resolved against baseURL so Twilio can reach
// the webhook routes from outside.
func Render(baseURL string, actions []dialog.Action) (string, error) {
	verbs := make([]twiml.Element, 0, len(actions))

	for _, a := range actions {
		switch a := a.(type) {
		case dialog.Say:
			verbs = append(verbs, &twiml.VoiceSay{Message: a.Text})

		case dialog.Gather:
			gather := &twiml.VoiceGather{
				Action:  routeURL(baseURL, a.Route),
				Method:  "POST",
				Input:   gatherInput(a),
				Timeout: strconv.Itoa(a.TimeoutSec),
			}
			if a.AcceptSpeech {
				gather.SpeechTimeout = "auto"
			}
			if a.NumDigits > 0 {
				gather.NumDigits = strconv.Itoa(a.NumDigits)
			}
			if a.SubmitOnTimeout {
				gather.ActionOnEmptyResult = "true"
			}
			if a.Prompt != "" {
				gather.InnerElements = []twiml.Element{
					&twiml.VoiceSay{Message: a.Prompt},
				}
			}
			verbs = append(verbs, gather)

		case dialog.Redirect:
			verbs = append(verbs, &twiml.VoiceRedirect{
				Url:    routeURL(baseURL, a.Route),
				Method: "POST",
			})

		case dialog.Hangup:
			verbs = append(verbs, &twiml.VoiceHangup{})

		default:
			return "", fmt.Errorf("unknown dialog action %T", a)
		}
	}

	return twiml.Voice(verbs)
}

func gatherInput(g dialog.Gather) string {
	var kinds []string
	if g.AcceptDigits {
		kinds = append(kinds, "dtmf")
	}
	if g.AcceptSpeech {
		kinds = append(kinds, "speech")
	}
	if len(kinds) == 0 {
		kinds = append(kinds, "dtmf")
	}
	return strings.Join(kinds, " ")
}

func routeURL(baseURL string, r dialog.Route) string {
	return strings.TrimRight(baseURL, "/") + string(r)
}
