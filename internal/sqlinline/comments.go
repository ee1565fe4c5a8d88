package sqlinline

const QInsertComment = `--sql 45249a21-a78c-4449-bc42-1a666fcd0505
insert into comments (id, submission_id, author_email, author_type, body)
select $1, s.id, $3, $4, $5
from submissions s
where s.id = $2
returning created_at;
`

const QListComments = `--sql c186cd36-729b-41a4-a48d-fc429d766e5c
select id, submission_id, author_email, author_type, body, created_at
from comments
where submission_id = $1
order by created_at asc, id asc;
`
