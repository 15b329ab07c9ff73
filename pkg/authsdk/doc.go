/*
Package authsdk provides a client SDK for the TabAuth session service.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (health, login, account creation)
  - Session: operations carrying a session token (refresh, logout, profile)

Log in to obtain a Session:

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.Login(ctx, "alice", "hunter22")
	if err != nil {
		return err
	}

	profile, err := session.GetProfile(ctx)

A token stored elsewhere can be resumed without logging in again:

	session := client.ResumeSession(userID, token)

# Token Lifetime

Tokens identify their user while used at least once a week. Refresh keeps a
token alive for up to two weeks of inactivity; after that the server deletes
it and Refresh fails with an invalid_token error.

# Error Handling

Every failure reported by the service is an *APIError carrying the error type
and messages from the response envelope:

	_, err := client.Login(ctx, "alice", "wrong")
	if authsdk.IsErrorType(err, authsdk.ErrorTypeInvalidCredentials) {
		// bad username or password
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
