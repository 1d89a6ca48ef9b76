// Package pizzagpt is a small client for the PizzaGPT conversational API.
//
// A Service sends one prompt per call over a pooled HTTP connection and
// returns the text of the answer:
//
//	svc, err := pizzagpt.New(pizzagpt.WithEnvironment(config.Staging))
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	answer, err := svc.GetResponse(ctx, "Which pizza goes with pineapple?")
//
// Failures are *errors.Error values from the errors package; use
// errors.IsValidation, errors.IsConnection and errors.IsResponse to tell
// them apart. Nothing is retried or cached.
package pizzagpt
