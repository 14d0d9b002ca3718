// Package core contains the messages of the content platform: the events recorded in the
// connector, content, and site streams, the commands that produce them, and the queries answered
// by the projections.
//
// Events are facts. They are named in the past tense (ConnectionEstablished, PublicContentAdded)
// and never change once recorded. Every event embeds the envelope of its stream family,
// so its family is part of its type.
//
// Entities like Connection, Channel, and Content are read model shapes returned by queries.
// The assembled Content is built by several projections through the BuildContent query and
// its ContentBuilder.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
