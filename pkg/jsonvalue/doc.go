// Package jsonvalue models the parsed JSON documents that flow between text
// buffers and form state. A Value distinguishes an absent document
// (undefined) from an explicit JSON null, keeps numbers as json.Number so
// buffer text round-trips without precision loss, and serializes
// deterministically so unchanged data always produces byte-identical text.
package jsonvalue
