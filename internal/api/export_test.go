package api

// MaxBody exposes the response size limit to the api_test package.
const MaxBody = maxBody
