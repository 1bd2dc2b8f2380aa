package manifest

import "testing"

const postmanCollection = `{
  "info": {
    "name": "example-api",
    "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
  },
  "item": [
    {
      "name": "users",
      "item": [
        {
          "name": "list users",
          "request": {
            "method": "GET",
            "header": [{"key": "Accept", "value": "application/json"}],
            "url": {"raw": "https://x/users"}
          }
        }
      ]
    },
    {
      "name": "top-level ping",
      "request": {
        "method": "GET",
        "url": {"raw": "https://x/ping"}
      }
    }
  ]
}`

func TestFromPostmanCollectionFoldersBecomeGroups(t *testing.T) {
	m, err := FromPostmanCollection([]byte(postmanCollection))
	if err != nil {
		t.Fatalf("FromPostmanCollection: %v", err)
	}
	if m.Name != "example-api" {
		t.Errorf("Name = %q", m.Name)
	}

	var usersGroup, defaultGroup *Group
	for i := range m.Groups {
		switch m.Groups[i].Name {
		case "users":
			usersGroup = &m.Groups[i]
		case "default":
			defaultGroup = &m.Groups[i]
		}
	}
	if usersGroup == nil {
		t.Fatal("expected a 'users' group from the top-level folder")
	}
	if len(usersGroup.Entries) != 1 || usersGroup.Entries[0].Name != "list users" {
		t.Errorf("users group entries = %+v", usersGroup.Entries)
	}
	if usersGroup.Entries[0].Job.RequestTemplate != "https://x/users" {
		t.Errorf("request template = %q", usersGroup.Entries[0].Job.RequestTemplate)
	}
	if usersGroup.Entries[0].Job.Headers["Accept"] != "application/json" {
		t.Errorf("headers = %+v", usersGroup.Entries[0].Job.Headers)
	}

	if defaultGroup == nil {
		t.Fatal("expected a 'default' group for the top-level leaf request")
	}
	if len(defaultGroup.Entries) != 1 || defaultGroup.Entries[0].Name != "top-level ping" {
		t.Errorf("default group entries = %+v", defaultGroup.Entries)
	}
}

func TestFromPostmanCollectionMalformedInput(t *testing.T) {
	if _, err := FromPostmanCollection([]byte("not a collection")); err == nil {
		t.Error("malformed postman collection should fail to parse")
	}
}
