/*
Package shelfsdk provides a client SDK for the Shelf book-tracking service.

# Overview

The package is organized around two types:

  - SDKClient: public operations (health, the book catalog) and the flows that
    end in a session (registration, login, password reset)
  - Session: operations on behalf of a signed-in user

Registration and login finish with a Session once the emailed code has been
verified:

	client := shelfsdk.NewSDKClient("https://shelf.example.com")

	reg, err := client.Register(ctx, shelfsdk.RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "Aa1!aaaa",
	})

	// The code arrives by email.
	session, err := client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: code})

	entries, err := session.ListEntries(ctx)

Login may return a pending second step instead of a session:

	resp, session, err := client.Login(ctx, shelfsdk.LoginRequest{Email: email, Password: pw})
	if resp.MFA {
		session, err = client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: resp.UserID, OTP: code})
	}

# Errors

Every non-2xx response is returned as an *APIError carrying the HTTP status
and one of the ErrorCode constants. Use errors.As or the Is helpers:

	var apiErr *shelfsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == shelfsdk.ErrorCodeInvalidCode {
		// ask for the code again
	}

The server shares the DTOs and error values in this package, so the wire
format is defined in one place.
*/
package shelfsdk
