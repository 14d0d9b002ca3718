package core

import "github.com/AntonStoeckl/content-eventbus-go/messages"

// EventFactories returns a constructor of an empty value for every event type of the platform.
// The codec uses them to rebuild events from the store.
func EventFactories() []func() messages.Restorable {
	return []func() messages.Restorable{
		func() messages.Restorable { return &ConnectionEstablished{} },
		func() messages.Restorable { return &ConnectionRefreshed{} },
		func() messages.Restorable { return &ConnectionDeleted{} },
		func() messages.Restorable { return &ChannelSaved{} },
		func() messages.Restorable { return &ChannelDeleted{} },
		func() messages.Restorable { return &ChannelSiteLinkSet{} },
		func() messages.Restorable { return &SitePermissionsSet{} },
		func() messages.Restorable { return &FollowerAdded{} },
		func() messages.Restorable { return &FollowerRemoved{} },
		func() messages.Restorable { return &ContentCreated{} },
		func() messages.Restorable { return &ContentBaseAttributeEdited{} },
		func() messages.Restorable { return &PermalinkAssigned{} },
		func() messages.Restorable { return &ContentBodyEdited{} },
		func() messages.Restorable { return &ContentDeleted{} },
		func() messages.Restorable { return &PublicContentAdded{} },
		func() messages.Restorable { return &PublicContentRemoved{} },
		func() messages.Restorable { return &ReblogCreated{} },
		func() messages.Restorable { return &ReblogInfoChanged{} },
		func() messages.Restorable { return &ReblogCommentChanged{} },
		func() messages.Restorable { return &ContentExtensionEdited{} },
	}
}

// Families lists the event-stream families of the platform.
func Families() []messages.Family {
	return []messages.Family{messages.FamilyConnector, messages.FamilyContent, messages.FamilySite}
}
