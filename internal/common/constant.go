package common

// AccessTokenCookieName is the cookie that carries the access token
// issued on login.
const AccessTokenCookieName = "jwtToken"

// AccessTokenHeaderName is the fallback request header for clients that
// cannot send cookies.
const AccessTokenHeaderName = "x-access-token"
